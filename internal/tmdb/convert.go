package tmdb

import (
	"strconv"
	"time"

	"github.com/mrlokans/filmlog/internal/entities"
)

const (
	// ResolverCastLimit caps the cast stored when a movie is resolved during import.
	ResolverCastLimit = 20
	// SeederCastLimit caps the cast stored by the catalog seeder.
	SeederCastLimit = 15
)

// ToCatalogEntry converts TMDB details into a catalog entry, keeping at most castLimit cast members.
func (d *MovieDetails) ToCatalogEntry(castLimit int) *entities.Movie {
	genres := make(entities.StringList, 0, len(d.Genres))
	for _, g := range d.Genres {
		genres = append(genres, g.Name)
	}

	cast := d.Credits.Cast
	if castLimit >= 0 && len(cast) > castLimit {
		cast = cast[:castLimit]
	}
	members := make(entities.CastList, 0, len(cast))
	for _, c := range cast {
		members = append(members, entities.CastMember{
			ID:          c.ID,
			Name:        c.Name,
			Character:   c.Character,
			ProfilePath: c.ProfilePath,
			Order:       c.Order,
		})
	}

	now := time.Now()
	return &entities.Movie{
		ID:               strconv.Itoa(d.ID),
		Title:            d.Title,
		OriginalTitle:    d.OriginalTitle,
		Overview:         d.Overview,
		PosterPath:       d.PosterPath,
		BackdropPath:     d.BackdropPath,
		VoteAverage:      d.VoteAverage,
		VoteCount:        d.VoteCount,
		Popularity:       d.Popularity,
		ReleaseDate:      d.ReleaseDate,
		Genres:           genres,
		Cast:             members,
		Director:         d.director(),
		Runtime:          d.Runtime,
		Budget:           d.Budget,
		Revenue:          d.Revenue,
		Tagline:          d.Tagline,
		Status:           d.Status,
		IMDbID:           d.IMDbID,
		OriginalLanguage: d.OriginalLanguage,
		Adult:            d.Adult,
		CachedAt:         now,
		UpdatedAt:        now,
	}
}

// director returns the first crew member credited as Director.
func (d *MovieDetails) director() *string {
	for _, member := range d.Credits.Crew {
		if member.Job == "Director" {
			name := member.Name
			return &name
		}
	}
	return nil
}
