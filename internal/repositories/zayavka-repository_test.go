package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zayavka-portal/internal/dto"
)

func TestDashboardQueryDefaultHidesDone(t *testing.T) {
	sqlStr, args, err := dashboardQuery(dto.ZayavkaFilterDTO{}, false)
	require.NoError(t, err)

	assert.Contains(t, sqlStr, "z.status <> $1", "без фильтра сделанные заявки исключаются")
	assert.Equal(t, []interface{}{"сделано"}, args)
	assert.Contains(t, sqlStr, "ORDER BY z.created_at DESC, z.id", "порядок стабилен: новые сверху, ничья по id")
}

func TestDashboardQueryIncludeDoneDropsExclusion(t *testing.T) {
	sqlStr, args, err := dashboardQuery(dto.ZayavkaFilterDTO{Status: "сделано"}, true)
	require.NoError(t, err)

	assert.NotContains(t, sqlStr, "<>", "явный фильтр по сделанным снимает исключение")
	assert.Contains(t, sqlStr, "z.status ILIKE $1")
	assert.Equal(t, []interface{}{"%сделано%"}, args)
}

func TestDashboardQueryCombinesFilters(t *testing.T) {
	filter := dto.ZayavkaFilterDTO{Type: "проектор", Status: "принято", Query: "иванов"}
	sqlStr, args, err := dashboardQuery(filter, false)
	require.NoError(t, err)

	// Фильтры соединяются через AND; свободный поиск — OR по трём колонкам
	// внутри общих скобок.
	assert.Contains(t, sqlStr, "z.status <> $1 AND z.type ILIKE $2 AND z.status ILIKE $3")
	assert.Contains(t, sqlStr, "(z.description ILIKE $4 OR u.username ILIKE $5 OR u.full_name ILIKE $6)")

	assert.Equal(t, []interface{}{
		"сделано",
		"%проектор%",
		"%принято%",
		"%иванов%",
		"%иванов%",
		"%иванов%",
	}, args)
}

func TestDashboardQueryFreeTextOnly(t *testing.T) {
	sqlStr, args, err := dashboardQuery(dto.ZayavkaFilterDTO{Query: "лампа"}, false)
	require.NoError(t, err)

	assert.Contains(t, sqlStr, "(z.description ILIKE $2 OR u.username ILIKE $3 OR u.full_name ILIKE $4)")
	assert.NotContains(t, sqlStr, "z.type ILIKE", "незаданный фильтр по типу не попадает в запрос")
	assert.Len(t, args, 4)
}
