package testutil

import (
	"fmt"
	"testing"

	"github.com/bukucerdas/bookstore/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func CreateUser(t testing.TB, gdb *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{
		Name:          username,
		Username:      username,
		Email:         fmt.Sprintf("%s@example.com", username),
		PasswordHash:  "x",
		Role:          role,
		AccountStatus: models.AccountActive,
	}
	require.NoError(t, gdb.Create(u).Error)
	return u
}

func CreateCategory(t testing.TB, gdb *gorm.DB, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name}
	require.NoError(t, gdb.Create(c).Error)
	return c
}

func CreateBook(t testing.TB, gdb *gorm.DB, title string, price int64, stock int, categoryID *uint) *models.Book {
	t.Helper()
	b := &models.Book{
		Title:      title,
		Author:     "Author " + title,
		Price:      price,
		Stock:      stock,
		Status:     models.BookActive,
		CategoryID: categoryID,
	}
	require.NoError(t, gdb.Create(b).Error)
	return b
}

func CreateAddress(t testing.TB, gdb *gorm.DB, userID uint, city string, isDefault bool) *models.Address {
	t.Helper()
	a := &models.Address{
		UserID:        userID,
		RecipientName: "Recipient",
		Phone:         "08123456789",
		Street:        "Jl. Merdeka 1",
		City:          city,
		IsDefault:     isDefault,
	}
	require.NoError(t, gdb.Create(a).Error)
	return a
}
