package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"zayavka-portal/internal/entities"
	"zayavka-portal/pkg/constants"
	apperrors "zayavka-portal/pkg/errors"
)

func intPtr(v int) *int { return &v }

func TestCanDelete(t *testing.T) {
	owner := 7

	t.Run("владелец удаляет незавершённую заявку", func(t *testing.T) {
		z := &entities.Zayavka{UserID: owner, Status: constants.StatusPending}
		assert.NoError(t, canDelete(z, owner))
	})

	t.Run("чужую заявку удалить нельзя", func(t *testing.T) {
		z := &entities.Zayavka{UserID: owner, Status: constants.StatusPending}
		assert.ErrorIs(t, canDelete(z, owner+1), apperrors.ErrForbidden)
	})

	t.Run("сделанную заявку не удаляет даже владелец", func(t *testing.T) {
		z := &entities.Zayavka{UserID: owner, Status: constants.StatusDone}
		assert.ErrorIs(t, canDelete(z, owner), apperrors.ErrForbidden)
	})

	t.Run("отказанную заявку владелец удалить может", func(t *testing.T) {
		z := &entities.Zayavka{UserID: owner, Status: constants.StatusRejected}
		assert.NoError(t, canDelete(z, owner))
	})
}

func TestCanSubmitFeedback(t *testing.T) {
	owner := 3

	t.Run("отзыв по завершённой заявке", func(t *testing.T) {
		z := &entities.Zayavka{UserID: owner, Status: constants.StatusDone}
		assert.NoError(t, canSubmitFeedback(z, owner, intPtr(5)))
	})

	t.Run("отзыв без оценки допустим", func(t *testing.T) {
		z := &entities.Zayavka{UserID: owner, Status: constants.StatusRejected}
		assert.NoError(t, canSubmitFeedback(z, owner, nil))
	})

	t.Run("не владелец", func(t *testing.T) {
		z := &entities.Zayavka{UserID: owner, Status: constants.StatusDone}
		assert.ErrorIs(t, canSubmitFeedback(z, owner+1, intPtr(4)), apperrors.ErrForbidden)
	})

	t.Run("заявка ещё не завершена", func(t *testing.T) {
		z := &entities.Zayavka{UserID: owner, Status: constants.StatusAccepted}
		assert.ErrorIs(t, canSubmitFeedback(z, owner, intPtr(4)), apperrors.ErrForbidden)
	})

	t.Run("оценка вне диапазона", func(t *testing.T) {
		z := &entities.Zayavka{UserID: owner, Status: constants.StatusDone}
		assert.ErrorIs(t, canSubmitFeedback(z, owner, intPtr(0)), apperrors.ErrInvalidRating)
		assert.ErrorIs(t, canSubmitFeedback(z, owner, intPtr(6)), apperrors.ErrInvalidRating)
	})
}
