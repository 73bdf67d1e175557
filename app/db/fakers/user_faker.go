package fakers

import (
	"fmt"
	"strings"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/helpers"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models"
	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
)

const DefaultPassword = "password"

// UserFaker builds an unsaved, verified user whose password is DefaultPassword.
func UserFaker(role string) (*models.User, error) {
	hashed, err := helpers.HashPassword(DefaultPassword)
	if err != nil {
		return nil, err
	}

	suffix := uuid.NewString()[:8]
	username := fmt.Sprintf("%s_%s", strings.ToLower(faker.FirstName()), suffix)
	fullName := faker.Name()
	address := faker.Sentence()
	phone := fmt.Sprintf("017%08d", uuid.New().ID()%100000000)

	return &models.User{
		Username:   username,
		Email:      username + "@example.com",
		Password:   hashed,
		FullName:   &fullName,
		Address:    &address,
		Phone:      &phone,
		Role:       role,
		IsVerified: true,
	}, nil
}

// BrandFaker builds an unsaved brand owned by userID.
func BrandFaker(userID uint) *models.Brand {
	name := faker.LastName() + " Crafts"
	desc := faker.Sentence()
	return &models.Brand{
		UserID:      userID,
		Name:        name,
		Slug:        fmt.Sprintf("%s-%d", helpers.GenerateSlug(name), userID),
		Description: &desc,
	}
}
