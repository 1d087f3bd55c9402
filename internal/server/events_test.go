package server

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"studyhub.ru/gamification/internal/common"
	"studyhub.ru/gamification/internal/features/reputation"
)

func TestLikeMilestoneAction(t *testing.T) {
	assert.Equal(t, reputation.ActionPost10Likes, likeMilestoneAction(10))
	assert.Equal(t, reputation.ActionPost50Likes, likeMilestoneAction(50))
	assert.Equal(t, reputation.ActionPost100Likes, likeMilestoneAction(100))

	// Начисление только в момент пересечения порога
	assert.Empty(t, likeMilestoneAction(9))
	assert.Empty(t, likeMilestoneAction(11))
	assert.Empty(t, likeMilestoneAction(0))
}

func TestDispatchUnknownEvent(t *testing.T) {
	d := NewEventDispatcher(nil, nil, nil, nil, logrus.New())

	_, err := d.Dispatch(context.Background(), Event{UserID: 7, Type: "made_up_event"})
	assert.ErrorIs(t, err, common.ErrUnknownEvent)
}
