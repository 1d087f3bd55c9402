//go:build ignore

// generate_hash.go — утилита для генерации bcrypt-хеша служебного токена.
// Запуск: go run scripts/generate_hash.go ваш_токен
//
// Результат вставьте в .env как INTERNAL_TOKEN_HASH.
package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Использование: go run scripts/generate_hash.go <токен>")
		os.Exit(1)
	}

	token := os.Args[1]

	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		fmt.Printf("Ошибка генерации хеша: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Хеш для INTERNAL_TOKEN_HASH:")
	fmt.Println(string(hash))
}
