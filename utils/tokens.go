package utils

import (
	"context"
	"strconv"
	"time"

	"rentora-server/config"
	"rentora-server/models"
	"rentora-server/storage"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

var bgContext = context.Background()

const (
	AccessTokenTTL  = 24 * time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// AccessToken is the claim set carried by short-lived API tokens.
type AccessToken struct {
	ID   uint   `json:"id"`
	Role string `json:"role"`
}

// ForgotPasswordToken is the claim set of the short-lived reset token mailed
// to the user.
type ForgotPasswordToken struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken"`
}

func CreateForgotPasswordToken(id uint, email string) (string, error) {
	signer := jwt.NewSigner(jwt.HS256, config.Get().EmailTokenSecret, 10*time.Minute)

	token, err := signer.Sign(ForgotPasswordToken{ID: id, Email: email})
	if err != nil {
		return "", err
	}
	return string(token), nil
}

// CreateTokenPair signs an access/refresh pair and registers the refresh token
// in Redis so it can be rotated exactly once.
func CreateTokenPair(id uint) (*jwt.TokenPair, error) {
	cfg := config.Get()
	accessTokenSigner := jwt.NewSigner(jwt.HS256, cfg.AccessTokenSecret, AccessTokenTTL)
	refreshTokenSigner := jwt.NewSigner(jwt.HS256, cfg.RefreshTokenSecret, RefreshTokenTTL)

	userID := strconv.FormatUint(uint64(id), 10)
	refreshClaims := jwt.Claims{Subject: userID}

	// Embed the current role so route guards never need a user lookup.
	var u models.User
	role := models.RoleUser
	if err := storage.DB.Select("id, role").First(&u, id).Error; err == nil && u.Role != "" {
		role = u.Role
	}

	accessToken, err := accessTokenSigner.Sign(AccessToken{ID: id, Role: role})
	if err != nil {
		return nil, err
	}

	refreshToken, err := refreshTokenSigner.Sign(refreshClaims)
	if err != nil {
		return nil, err
	}

	var tokenPair jwt.TokenPair
	tokenPair.AccessToken = accessToken
	tokenPair.RefreshToken = refreshToken

	storage.Redis.Set(bgContext, "refresh:"+string(refreshToken), userID, RefreshTokenTTL+5*time.Minute)

	return &tokenPair, nil
}

// RefreshToken rotates a refresh token: the presented token must still be
// registered, and is consumed before a new pair is issued.
func RefreshToken(ctx iris.Context) {
	token := jwt.GetVerifiedToken(ctx)
	tokenStr := string(token.Token)

	userIDStr, err := storage.Redis.Get(bgContext, "refresh:"+tokenStr).Result()
	if err != nil {
		JSONError(ctx, iris.StatusUnauthorized, CodeUnauthorized, "Refresh token revoked or unknown")
		return
	}

	storage.Redis.Del(bgContext, "refresh:"+tokenStr)

	userID, parseErr := strconv.ParseUint(userIDStr, 10, 32)
	if parseErr != nil {
		CreateInternalServerError(ctx)
		return
	}

	tokenPair, tokenPairErr := CreateTokenPair(uint(userID))
	if tokenPairErr != nil {
		CreateInternalServerError(ctx)
		return
	}

	JSONSuccess(ctx, tokenPair)
}

// BlacklistAccessToken revokes an access token for its remaining lifetime.
func BlacklistAccessToken(raw string) {
	storage.Redis.Set(bgContext, "blacklist:"+raw, "true", AccessTokenTTL)
}

// TokenBlacklisted reports whether an access token has been revoked via logout.
func TokenBlacklisted(raw string) bool {
	val, err := storage.Redis.Get(bgContext, "blacklist:"+raw).Result()
	return err == nil && val == "true"
}
