package utils

import (
	"context"

	"zayavka-portal/pkg/contextkeys"
	apperrors "zayavka-portal/pkg/errors"
)

func GetUserIDFromCtx(ctx context.Context) (int, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(int)
	if !ok || userID == 0 {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	return userID, nil
}

func GetUserRoleFromCtx(ctx context.Context) (string, error) {
	role, ok := ctx.Value(contextkeys.UserRoleKey).(string)
	if !ok {
		return "", apperrors.ErrUserIDNotFoundInContext
	}
	return role, nil
}
