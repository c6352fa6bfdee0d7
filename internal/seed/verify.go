package seed

import (
	"context"
	"fmt"
	"log"
)

// Mismatch is a denormalized counter that disagrees with the rows it counts.
type Mismatch struct {
	Entity  string
	ID      uint
	Counter string
	Stored  int
	Actual  int64
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s %d %s: stored=%d actual=%d", m.Entity, m.ID, m.Counter, m.Stored, m.Actual)
}

// Verify recounts follows, posts, likes and comments and reports every
// counter that drifted from its rows.
func (s *Seeder) Verify(ctx context.Context) ([]Mismatch, error) {
	var out []Mismatch
	check := func(entity string, id uint, counter string, stored int, actual int64) {
		if int64(stored) != actual {
			out = append(out, Mismatch{Entity: entity, ID: id, Counter: counter, Stored: stored, Actual: actual})
		}
	}

	users, err := s.repos.Users.List(ctx, 0)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		followers, err := s.repos.Follows.CountForTarget(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		following, err := s.repos.Follows.CountForActor(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		posts, err := s.repos.Posts.ListByUser(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		check("user", u.ID, "followers", u.Followers, followers)
		check("user", u.ID, "following", u.Following, following)
		check("user", u.ID, "posts", u.Posts, int64(len(posts)))
	}

	posts, err := s.repos.Posts.ListNewest(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		likes, err := s.repos.Likes.CountForTarget(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		comments, err := s.repos.Comments.ListByPost(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		check("post", p.ID, "likes", p.Likes, likes)
		check("post", p.ID, "comments", p.Comments, int64(len(comments)))
	}

	log.Printf("🔎 Checked counters of %d users and %d posts, %d mismatches", len(users), len(posts), len(out))
	return out, nil
}
