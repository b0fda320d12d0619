package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riconnect/internal/domain"
)

func testCatalog() domain.FilterCatalog {
	return domain.FilterCatalog{
		Genres: []string{"House", "Techno", "Hip Hop"},
		Types:  []string{"Live DJ Performances"},
	}
}

func TestFilterService_Replace(t *testing.T) {
	svc := NewFilterService(testCatalog(), newRegistry())
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	got, err := svc.Replace("ana", domain.FilterState{
		Genres: []string{"techno", "HOUSE", "Techno"},
		Types:  []string{"live dj performances"},
		Themes: []string{"Anything Goes"},
		Date:   &date,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Techno", "House"}, got.Genres)
	assert.Equal(t, []string{"Live DJ Performances"}, got.Types)
	assert.Equal(t, []string{"Anything Goes"}, got.Themes, "empty catalog facet accepts any tag")
	assert.Equal(t, got, svc.Get("ana"))
	assert.True(t, svc.Get("ivo").IsZero())
}

func TestFilterService_RejectsUnknownTag(t *testing.T) {
	svc := NewFilterService(testCatalog(), newRegistry())
	_, err := svc.Replace("ana", domain.FilterState{Genres: []string{"House"}})
	require.NoError(t, err)

	_, err = svc.Replace("ana", domain.FilterState{Genres: []string{"Polka"}})
	require.ErrorIs(t, err, domain.ErrInvalidFilter)
	assert.Equal(t, []string{"House"}, svc.Get("ana").Genres, "state unchanged on error")

	svc.Clear("ana")
	assert.True(t, svc.Get("ana").IsZero())
}

func TestFilterService_Update(t *testing.T) {
	svc := NewFilterService(testCatalog(), newRegistry())
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Replace("ana", domain.FilterState{
		Genres: []string{"House"},
		Types:  []string{"Live DJ Performances"},
		Date:   &date,
	})
	require.NoError(t, err)

	genres := []string{"techno", "TECHNO"}
	got, err := svc.Update("ana", domain.FilterPatch{Genres: &genres})
	require.NoError(t, err)
	assert.Equal(t, []string{"Techno"}, got.Genres)
	assert.Equal(t, []string{"Live DJ Performances"}, got.Types, "absent facet kept")
	require.NotNil(t, got.Date)

	empty := []string{}
	got, err = svc.Update("ana", domain.FilterPatch{Types: &empty, SetDate: true})
	require.NoError(t, err)
	assert.Empty(t, got.Types)
	assert.Nil(t, got.Date)
	assert.Equal(t, []string{"Techno"}, got.Genres)

	bad := []string{"Polka"}
	_, err = svc.Update("ana", domain.FilterPatch{Genres: &genres, Types: &bad})
	require.ErrorIs(t, err, domain.ErrInvalidFilter)
	unknown := []string{"Polka"}
	_, err = svc.Update("ana", domain.FilterPatch{Themes: &empty, Genres: &unknown})
	require.ErrorIs(t, err, domain.ErrInvalidFilter)
	assert.Equal(t, []string{"Techno"}, svc.Get("ana").Genres, "state unchanged on error")
}

func TestFilterService_CatalogIsACopy(t *testing.T) {
	svc := NewFilterService(testCatalog(), newRegistry())
	c := svc.Catalog()
	c.Genres[0] = "Polka"
	assert.Equal(t, "House", svc.Catalog().Genres[0])
}
