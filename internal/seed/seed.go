// Package seed loads the sample movie catalog.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/joestump/movies/internal/store"
)

// Movies is the sample catalog.
var Movies = []store.MovieInput{
	{Name: "The Shawshank Redemption", Year: 1994, Genres: []string{"Drama"}, Rating: 9.3,
		Description: "Two imprisoned men bond over years, finding solace and eventual redemption through acts of common decency."},
	{Name: "The Godfather", Year: 1972, Genres: []string{"Crime", "Drama"}, Rating: 9.2,
		Description: "The aging patriarch of an organized crime dynasty transfers control to his reluctant son."},
	{Name: "The Dark Knight", Year: 2008, Genres: []string{"Action", "Crime", "Drama"}, Rating: 9.0,
		Description: "Batman faces the Joker, a criminal mastermind who wants to plunge Gotham City into anarchy."},
	{Name: "Pulp Fiction", Year: 1994, Genres: []string{"Crime", "Drama"}, Rating: 8.9,
		Description: "The lives of two mob hitmen, a boxer, and others intertwine in four tales of violence and redemption."},
	{Name: "Forrest Gump", Year: 1994, Genres: []string{"Drama", "Romance"}, Rating: 8.8,
		Description: "A man with low IQ accomplishes great things and is present during significant historic events."},
	{Name: "Inception", Year: 2010, Genres: []string{"Action", "Sci-Fi", "Thriller"}, Rating: 8.8,
		Description: "A thief who steals corporate secrets through dream-sharing technology is given the inverse task of planting an idea."},
	{Name: "The Matrix", Year: 1999, Genres: []string{"Action", "Sci-Fi"}, Rating: 8.7,
		Description: "A computer programmer discovers reality as he knows it is actually a simulation."},
	{Name: "Goodfellas", Year: 1990, Genres: []string{"Crime", "Drama"}, Rating: 8.7,
		Description: "The story of Henry Hill and his life in the mob, covering his relationship with his wife and his mob partners."},
	{Name: "Interstellar", Year: 2014, Genres: []string{"Adventure", "Drama", "Sci-Fi"}, Rating: 8.6,
		Description: "A team of explorers travel through a wormhole in space in an attempt to ensure humanity's survival."},
	{Name: "Parasite", Year: 2019, Genres: []string{"Comedy", "Drama", "Thriller"}, Rating: 8.6,
		Description: "A poor family schemes to become employed by a wealthy family and infiltrate their household."},
	{Name: "The Lion King", Year: 1994, Genres: []string{"Animation", "Adventure", "Drama"}, Rating: 8.5,
		Description: "A young lion prince flees his kingdom only to learn the true meaning of responsibility and bravery."},
	{Name: "Spirited Away", Year: 2001, Genres: []string{"Animation", "Adventure", "Family"}, Rating: 9.3,
		Description: "During her family's move to the suburbs, a sullen 10-year-old girl wanders into a world ruled by gods and witches."},
}

// Run replaces every movie with the sample catalog. When owner is set, the
// movies belong to that user (by username or email) so they can be edited.
func Run(ctx context.Context, movies store.MovieStoreIface, users store.UserStoreIface, owner string) (int, error) {
	var ownerID string
	if owner != "" {
		u, err := users.FindByUsernameOrEmail(ctx, owner, owner)
		if errors.Is(err, store.ErrNotFound) {
			return 0, fmt.Errorf("owner %q not found", owner)
		}
		if err != nil {
			return 0, fmt.Errorf("find owner: %w", err)
		}
		ownerID = u.ID
	}
	n, err := movies.ReplaceAll(ctx, Movies, ownerID)
	if err != nil {
		return 0, fmt.Errorf("replace movies: %w", err)
	}
	return n, nil
}
