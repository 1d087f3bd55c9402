// Package badges — catalog.go содержит стартовый каталог бейджей.
// Каталог заливается в БД при старте сервиса; повторный запуск
// идемпотентен (бейджи адресуются уникальным именем).
package badges

// Catalog — полный набор бейджей платформы.
var Catalog = []Badge{
	// Активность
	{Name: "First Post", Description: "Created your first post", Icon: "✍️",
		Category: CategoryEngagement, Rarity: RarityCommon, Color: "#6B7280",
		Criteria: Criteria{Kind: KindPostsCount, Threshold: 1}},
	{Name: "Prolific Writer", Description: "Created 50 posts", Icon: "📝",
		Category: CategoryEngagement, Rarity: RarityRare, Color: "#3B82F6",
		Criteria: Criteria{Kind: KindPostsCount, Threshold: 50}},
	{Name: "Content Creator", Description: "Created 100 posts", Icon: "🎨",
		Category: CategoryEngagement, Rarity: RarityEpic, Color: "#8B5CF6",
		Criteria: Criteria{Kind: KindPostsCount, Threshold: 100}},

	// Качество
	{Name: "Helpful Hero", Description: "Received 50 helpful reactions", Icon: "💡",
		Category: CategoryQuality, Rarity: RarityRare, Color: "#3B82F6",
		Criteria: Criteria{Kind: KindHelpfulCount, Threshold: 50}},
	{Name: "Problem Solver", Description: "Had 10 answers marked as solutions", Icon: "🎯",
		Category: CategoryQuality, Rarity: RarityEpic, Color: "#8B5CF6",
		Criteria: Criteria{Kind: KindSolutionsCount, Threshold: 10}},
	{Name: "Genius", Description: "Had 50 answers marked as solutions", Icon: "🧠",
		Category: CategoryQuality, Rarity: RarityLegendary, Color: "#EF4444",
		Criteria: Criteria{Kind: KindSolutionsCount, Threshold: 50}},

	// Постоянство
	{Name: "7-Day Streak", Description: "Active for 7 consecutive days", Icon: "🔥",
		Category: CategoryConsistency, Rarity: RarityRare, Color: "#F59E0B",
		Criteria: Criteria{Kind: KindLoginStreak, Threshold: 7}},
	{Name: "30-Day Warrior", Description: "Active for 30 consecutive days", Icon: "⚔️",
		Category: CategoryConsistency, Rarity: RarityEpic, Color: "#8B5CF6",
		Criteria: Criteria{Kind: KindLoginStreak, Threshold: 30}},
	{Name: "Unstoppable", Description: "Active for 100 consecutive days", Icon: "💎",
		Category: CategoryConsistency, Rarity: RarityLegendary, Color: "#EF4444",
		Criteria: Criteria{Kind: KindLoginStreak, Threshold: 100}},

	// Социальные
	{Name: "Social Butterfly", Description: "Made 10 connections", Icon: "🦋",
		Category: CategorySocial, Rarity: RarityCommon, Color: "#6B7280",
		Criteria: Criteria{Kind: KindConnectionsCount, Threshold: 10}},
	{Name: "Networker", Description: "Made 50 connections", Icon: "🤝",
		Category: CategorySocial, Rarity: RarityRare, Color: "#3B82F6",
		Criteria: Criteria{Kind: KindConnectionsCount, Threshold: 50}},
	{Name: "Thread Starter", Description: "Created 5 study threads", Icon: "🧵",
		Category: CategorySocial, Rarity: RarityRare, Color: "#3B82F6",
		Criteria: Criteria{Kind: KindThreadsCreated, Threshold: 5}},
	{Name: "Thread Leader", Description: "Created a thread with 10+ active members", Icon: "👑",
		Category: CategorySocial, Rarity: RarityEpic, Color: "#8B5CF6",
		Criteria: Criteria{Kind: KindThreadLeader, Threshold: 1}},
	{Name: "Community Builder", Description: "Created 10 threads with 10+ members each", Icon: "🏗️",
		Category: CategorySocial, Rarity: RarityLegendary, Color: "#EF4444",
		Criteria: Criteria{Kind: KindThreadsLarge, Threshold: 10}},

	// Вехи
	{Name: "Early Adopter", Description: "Joined StudyHub in the first month", Icon: "🌟",
		Category: CategoryMilestone, Rarity: RarityEpic, Color: "#8B5CF6",
		Criteria: Criteria{Kind: KindEarlyAdopter, Threshold: 1}},
	{Name: "Reputation Master", Description: "Reached 1000 reputation points", Icon: "⭐",
		Category: CategoryMilestone, Rarity: RarityLegendary, Color: "#EF4444",
		Criteria: Criteria{Kind: KindReputation, Threshold: 1000}},
	{Name: "Department Hero", Description: "Top 3 in your department leaderboard", Icon: "🏆",
		Category: CategoryMilestone, Rarity: RarityLegendary, Color: "#EF4444",
		Criteria: Criteria{Kind: KindDepartmentRank, Threshold: 3}},
}
