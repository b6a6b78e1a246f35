package app

import (
	"gorm.io/gorm"

	contactrepo "github.com/giftwise/giftwise-backend/internal/data/repos/contact"
	giftrepo "github.com/giftwise/giftwise-backend/internal/data/repos/gift"
	preferencerepo "github.com/giftwise/giftwise-backend/internal/data/repos/preference"
	runrepo "github.com/giftwise/giftwise-backend/internal/data/repos/run"
	userrepo "github.com/giftwise/giftwise-backend/internal/data/repos/user"
	"github.com/giftwise/giftwise-backend/internal/pkg/logger"
)

type Repos struct {
	User       userrepo.UserRepo
	Contact    contactrepo.ContactRepo
	Gift       giftrepo.GiftRepo
	Preference preferencerepo.PreferenceRepo
	Run        runrepo.RunRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:       userrepo.NewUserRepo(db, log),
		Contact:    contactrepo.NewContactRepo(db, log),
		Gift:       giftrepo.NewGiftRepo(db, log),
		Preference: preferencerepo.NewPreferenceRepo(db, log),
		Run:        runrepo.NewRunRepo(db, log),
	}
}
