package domain

import (
	"github.com/giftwise/giftwise-backend/internal/domain/contact"
	"github.com/giftwise/giftwise-backend/internal/domain/gift"
	"github.com/giftwise/giftwise-backend/internal/domain/recommendation"
	"github.com/giftwise/giftwise-backend/internal/domain/user"
)

type User = user.User
type Contact = contact.Contact
type Gift = gift.Gift
type PreferenceExtraction = recommendation.PreferenceExtraction
type RecommendationRun = recommendation.RecommendationRun
