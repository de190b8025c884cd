package api

import (
	"time"

	"github.com/ferngrove/mira/internal/db"
	"github.com/ferngrove/mira/internal/services"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const (
	authCookieName      = "mira_session"
	defaultAuthTokenTTL = 24 * time.Hour
	contextUserKey      = "current_user"
)

type Handler struct {
	db           *gorm.DB
	secretKey    []byte
	location     *time.Location
	cookieSecure bool
	clock        services.Clock

	repositories *db.Repositories
	scheduler    *services.SchedulerService
	adherence    *services.AdherenceService
	reminders    *services.ReminderService
}

type authClaims struct {
	UserID uint `json:"uid"`
	jwt.RegisteredClaims
}
