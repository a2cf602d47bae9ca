package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// samplePosts are inserted into an empty database when seeding is enabled.
var samplePosts = []CreatePostParams{
	{
		Title:    "The Life of Cactus",
		Subtitle: "Who knew that cacti lived such interesting lives.",
		Author:   "Angela Yu",
		ImgURL:   "https://images.unsplash.com/photo-1530482054429-cc491f61333b",
		Body: "<p>Nori grape silver beet broccoli kombu beet greens fava bean potato quandong celery.</p>" +
			"<p>Bunya nuts black-eyed pea prairie turnip leek lentil turnip greens parsnip.</p>",
	},
	{
		Title:    "Top 15 Things to Do When You Are Bored",
		Subtitle: "Are you bored? Don't know what to do? Try these top 15 activities.",
		Author:   "Angela Yu",
		ImgURL:   "https://images.unsplash.com/photo-1515555230216-82228b88ea98",
		Body:     "<p>Sea lettuce lettuce water chestnut eggplant winter purslane fennel azuki bean earthnut pea sierra leone bologi leek soko chicory celtuce parsley jicama salsify.</p>",
	},
}

// Seed inserts sample posts when enabled and the posts table is empty.
func Seed(ctx context.Context, db *sql.DB, enabled bool, now time.Time) error {
	if !enabled {
		return nil
	}

	queries := New(db)
	count, err := queries.CountPosts(ctx)
	if err != nil {
		return fmt.Errorf("counting posts: %w", err)
	}
	if count > 0 {
		slog.Info("posts already exist, skipping seed", "count", count)
		return nil
	}

	return RunInTx(ctx, db, "seed posts", func(q *Queries) error {
		for _, p := range samplePosts {
			p.Date = now.Format(PostDateLayout)
			p.CreatedAt = now
			created, err := q.CreatePost(ctx, p)
			if err != nil {
				return fmt.Errorf("creating sample post %q: %w", p.Title, err)
			}
			slog.Info("created sample post", "id", created.ID, "title", created.Title)
		}
		return nil
	})
}
