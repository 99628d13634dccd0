package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	up := func(ctx context.Context, db *bun.DB) error {
		return exec(ctx, db,
			`
			CREATE TABLE chapters (
				id TEXT PRIMARY KEY,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				title TEXT NOT NULL,
				description TEXT,
				sort_order INTEGER NOT NULL DEFAULT 0,
				status TEXT NOT NULL DEFAULT 'draft',
				payment_type TEXT NOT NULL DEFAULT 'free',
				free_preview_sections INTEGER NOT NULL DEFAULT 0,
				published_at TIMESTAMPTZ
			)
			`,
			`CREATE INDEX ix_chapters_sort_order ON chapters (sort_order)`,
			`
			CREATE TABLE sections (
				id TEXT PRIMARY KEY,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				chapter_id TEXT NOT NULL REFERENCES chapters (id),
				title TEXT NOT NULL,
				content TEXT NOT NULL DEFAULT '',
				sort_order INTEGER NOT NULL DEFAULT 0,
				is_free BOOLEAN NOT NULL DEFAULT FALSE,
				word_count INTEGER NOT NULL DEFAULT 0,
				reading_time_minutes INTEGER NOT NULL DEFAULT 0
			)
			`,
			`CREATE INDEX ix_sections_chapter_id ON sections (chapter_id)`,
			`
			CREATE TABLE images (
				id TEXT PRIMARY KEY,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				filename TEXT NOT NULL,
				url TEXT NOT NULL,
				file_size BIGINT NOT NULL DEFAULT 0,
				width INTEGER,
				height INTEGER,
				mime_type TEXT,
				alt_text TEXT,
				caption TEXT,
				usage TEXT NOT NULL DEFAULT 'content',
				sort_order INTEGER NOT NULL DEFAULT 0,
				chapter_id TEXT REFERENCES chapters (id),
				section_id TEXT REFERENCES sections (id),
				uploaded_by TEXT
			)
			`,
			`CREATE INDEX ix_images_chapter_id ON images (chapter_id)`,
			`CREATE INDEX ix_images_section_id ON images (section_id)`,
			`CREATE INDEX ix_images_chapter_id_usage ON images (chapter_id, usage)`,
			`
			CREATE TABLE reading_records (
				id TEXT PRIMARY KEY,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				user_id TEXT NOT NULL,
				chapter_id TEXT NOT NULL REFERENCES chapters (id),
				section_id TEXT REFERENCES sections (id),
				progress REAL NOT NULL DEFAULT 0,
				last_read_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
			)
			`,
			`CREATE UNIQUE INDEX ux_reading_records_user_id_chapter_id ON reading_records (user_id, chapter_id)`,
			`CREATE INDEX ix_reading_records_chapter_id ON reading_records (chapter_id)`,
			`
			CREATE TABLE bookmarks (
				id TEXT PRIMARY KEY,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				user_id TEXT NOT NULL,
				chapter_id TEXT NOT NULL REFERENCES chapters (id),
				section_id TEXT REFERENCES sections (id),
				note TEXT
			)
			`,
			`CREATE INDEX ix_bookmarks_user_id ON bookmarks (user_id)`,
			`CREATE INDEX ix_bookmarks_chapter_id ON bookmarks (chapter_id)`,
			`
			CREATE TABLE content_versions (
				id TEXT PRIMARY KEY,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				chapter_id TEXT REFERENCES chapters (id),
				section_id TEXT REFERENCES sections (id),
				version INTEGER NOT NULL,
				title TEXT,
				content TEXT NOT NULL,
				change_note TEXT,
				author_id TEXT
			)
			`,
			`CREATE INDEX ix_content_versions_chapter_id ON content_versions (chapter_id)`,
			`CREATE INDEX ix_content_versions_section_id ON content_versions (section_id)`,
		)
	}

	down := func(ctx context.Context, db *bun.DB) error {
		return exec(ctx, db,
			"DROP TABLE IF EXISTS content_versions",
			"DROP TABLE IF EXISTS bookmarks",
			"DROP TABLE IF EXISTS reading_records",
			"DROP TABLE IF EXISTS images",
			"DROP TABLE IF EXISTS sections",
			"DROP TABLE IF EXISTS chapters",
		)
	}

	Migrations.MustRegister(up, down)
}
