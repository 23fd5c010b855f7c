package migrations

import "gorm.io/gorm"

// GetAllMigrations returns the event schema in the order it must be applied.
func GetAllMigrations() []MigrationDefinition {
	return []MigrationDefinition{
		{
			Name: "2025_01_01_000000_create_reference_tables",
			Up: func(db *gorm.DB) error {
				// Create teams and alliances tables
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS teams (
						id BIGSERIAL PRIMARY KEY,
						number INT NOT NULL,
						name VARCHAR(255) NOT NULL,
						created_at TIMESTAMP DEFAULT NOW(),
						updated_at TIMESTAMP DEFAULT NOW()
					);
					CREATE UNIQUE INDEX IF NOT EXISTS idx_teams_number ON teams(number);

					CREATE TABLE IF NOT EXISTS alliances (
						id BIGSERIAL PRIMARY KEY,
						name VARCHAR(50) NOT NULL,
						color VARCHAR(20),
						created_at TIMESTAMP DEFAULT NOW(),
						updated_at TIMESTAMP DEFAULT NOW()
					);
					CREATE UNIQUE INDEX IF NOT EXISTS idx_alliances_name ON alliances(name);
				`).Error; err != nil {
					return err
				}

				// Create score type tables
				return db.Exec(`
					CREATE TABLE IF NOT EXISTS score_type_groups (
						id BIGSERIAL PRIMARY KEY,
						name VARCHAR(255) NOT NULL,
						sort_order INT DEFAULT 0,
						created_at TIMESTAMP DEFAULT NOW(),
						updated_at TIMESTAMP DEFAULT NOW()
					);
					CREATE UNIQUE INDEX IF NOT EXISTS idx_score_type_groups_name ON score_type_groups(name);

					CREATE TABLE IF NOT EXISTS score_types (
						id BIGSERIAL PRIMARY KEY,
						name VARCHAR(255) NOT NULL,
						points INT NOT NULL,
						target VARCHAR(20) NOT NULL CHECK (target IN ('team', 'alliance')),
						group_id BIGINT NULL,
						created_at TIMESTAMP DEFAULT NOW(),
						updated_at TIMESTAMP DEFAULT NOW(),
						FOREIGN KEY (group_id) REFERENCES score_type_groups(id) ON DELETE SET NULL
					);
					CREATE UNIQUE INDEX IF NOT EXISTS idx_score_types_name_target ON score_types(name, target);
				`).Error
			},
			Down: func(db *gorm.DB) error {
				for _, table := range []string{"score_types", "score_type_groups", "alliances", "teams"} {
					if err := db.Exec("DROP TABLE IF EXISTS " + table + " CASCADE").Error; err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			Name: "2025_01_01_000001_seed_default_alliances",
			Up: func(db *gorm.DB) error {
				return db.Exec(`
					INSERT INTO alliances (name, color) VALUES
						('Red', '#d32f2f'),
						('Blue', '#1976d2')
					ON CONFLICT (name) DO NOTHING;
				`).Error
			},
			Down: func(db *gorm.DB) error {
				return db.Exec("DELETE FROM alliances WHERE name IN ('Red', 'Blue')").Error
			},
		},
		{
			Name: "2025_01_02_000000_create_draft_tables",
			Up: func(db *gorm.DB) error {
				// A team may sit in at most one group, whatever the slot.
				return db.Exec(`
					CREATE TABLE IF NOT EXISTS alliance_groups (
						id BIGSERIAL PRIMARY KEY,
						seed INT NOT NULL,
						captain_team_id BIGINT NOT NULL,
						pending_team_id BIGINT NULL,
						picked_team_id BIGINT NULL,
						created_at TIMESTAMP DEFAULT NOW(),
						updated_at TIMESTAMP DEFAULT NOW(),
						FOREIGN KEY (captain_team_id) REFERENCES teams(id) ON DELETE CASCADE,
						FOREIGN KEY (pending_team_id) REFERENCES teams(id) ON DELETE SET NULL,
						FOREIGN KEY (picked_team_id) REFERENCES teams(id) ON DELETE SET NULL
					);
					CREATE UNIQUE INDEX IF NOT EXISTS idx_alliance_groups_seed ON alliance_groups(seed);
					CREATE UNIQUE INDEX IF NOT EXISTS idx_alliance_groups_captain_team_id ON alliance_groups(captain_team_id);
					CREATE UNIQUE INDEX IF NOT EXISTS idx_alliance_groups_pending_team_id ON alliance_groups(pending_team_id) WHERE pending_team_id IS NOT NULL;
					CREATE UNIQUE INDEX IF NOT EXISTS idx_alliance_groups_picked_team_id ON alliance_groups(picked_team_id) WHERE picked_team_id IS NOT NULL;

					CREATE TABLE IF NOT EXISTS elimination_series (
						id BIGSERIAL PRIMARY KEY,
						round VARCHAR(40) NOT NULL,
						alliance_group_1_id BIGINT NOT NULL,
						alliance_group_2_id BIGINT NOT NULL,
						winner_alliance_group_id BIGINT NULL,
						status VARCHAR(20) NOT NULL DEFAULT 'pending',
						created_at TIMESTAMP DEFAULT NOW(),
						updated_at TIMESTAMP DEFAULT NOW(),
						FOREIGN KEY (alliance_group_1_id) REFERENCES alliance_groups(id) ON DELETE CASCADE,
						FOREIGN KEY (alliance_group_2_id) REFERENCES alliance_groups(id) ON DELETE CASCADE,
						FOREIGN KEY (winner_alliance_group_id) REFERENCES alliance_groups(id) ON DELETE SET NULL
					);
					CREATE UNIQUE INDEX IF NOT EXISTS idx_elimination_series_round ON elimination_series(round);
				`).Error
			},
			Down: func(db *gorm.DB) error {
				if err := db.Exec("DROP TABLE IF EXISTS elimination_series CASCADE").Error; err != nil {
					return err
				}
				return db.Exec("DROP TABLE IF EXISTS alliance_groups CASCADE").Error
			},
		},
		{
			Name: "2025_01_03_000000_create_match_tables",
			Up: func(db *gorm.DB) error {
				// Create matches table
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS matches (
						id BIGSERIAL PRIMARY KEY,
						number INT NOT NULL,
						type VARCHAR(20) NOT NULL CHECK (type IN ('qualification', 'elimination')),
						round VARCHAR(40) NULL,
						elimination_series_id BIGINT NULL,
						status VARCHAR(20) NOT NULL DEFAULT 'upcoming',
						start_time TIMESTAMP NOT NULL,
						started_at TIMESTAMP NULL,
						ended_at TIMESTAMP NULL,
						cancelled_at TIMESTAMP NULL,
						created_by VARCHAR(255),
						created_at TIMESTAMP DEFAULT NOW(),
						updated_at TIMESTAMP DEFAULT NOW(),
						FOREIGN KEY (elimination_series_id) REFERENCES elimination_series(id) ON DELETE CASCADE
					);
					CREATE UNIQUE INDEX IF NOT EXISTS idx_matches_number ON matches(number);
					CREATE INDEX IF NOT EXISTS idx_matches_type ON matches(type);
					CREATE INDEX IF NOT EXISTS idx_matches_status ON matches(status);
					CREATE INDEX IF NOT EXISTS idx_matches_elimination_series_id ON matches(elimination_series_id);
					CREATE UNIQUE INDEX IF NOT EXISTS idx_matches_single_ongoing ON matches(status) WHERE status = 'ongoing';
				`).Error; err != nil {
					return err
				}

				// Create match_alliances and scores tables
				return db.Exec(`
					CREATE TABLE IF NOT EXISTS match_alliances (
						id BIGSERIAL PRIMARY KEY,
						match_id BIGINT NOT NULL,
						team_id BIGINT NOT NULL,
						alliance_id BIGINT NOT NULL,
						position INT NOT NULL,
						score INT NOT NULL DEFAULT 0,
						counts_for_ranking BOOLEAN NOT NULL DEFAULT TRUE,
						surrogate BOOLEAN NOT NULL DEFAULT FALSE,
						alliance_group_id BIGINT NULL,
						created_at TIMESTAMP DEFAULT NOW(),
						updated_at TIMESTAMP DEFAULT NOW(),
						FOREIGN KEY (match_id) REFERENCES matches(id) ON DELETE CASCADE,
						FOREIGN KEY (team_id) REFERENCES teams(id),
						FOREIGN KEY (alliance_id) REFERENCES alliances(id),
						FOREIGN KEY (alliance_group_id) REFERENCES alliance_groups(id) ON DELETE SET NULL
					);
					CREATE UNIQUE INDEX IF NOT EXISTS idx_match_alliances_match_team ON match_alliances(match_id, team_id);
					CREATE INDEX IF NOT EXISTS idx_match_alliances_team_id ON match_alliances(team_id);
					CREATE INDEX IF NOT EXISTS idx_match_alliances_alliance_id ON match_alliances(alliance_id);
					CREATE INDEX IF NOT EXISTS idx_match_alliances_alliance_group_id ON match_alliances(alliance_group_id);

					CREATE TABLE IF NOT EXISTS scores (
						id BIGSERIAL PRIMARY KEY,
						match_id BIGINT NOT NULL,
						score_type_id BIGINT NOT NULL,
						team_id BIGINT NULL,
						alliance_id BIGINT NULL,
						points INT NOT NULL,
						created_by VARCHAR(255),
						created_at TIMESTAMP DEFAULT NOW(),
						updated_at TIMESTAMP DEFAULT NOW(),
						FOREIGN KEY (match_id) REFERENCES matches(id) ON DELETE CASCADE,
						FOREIGN KEY (score_type_id) REFERENCES score_types(id),
						FOREIGN KEY (team_id) REFERENCES teams(id),
						FOREIGN KEY (alliance_id) REFERENCES alliances(id)
					);
					CREATE INDEX IF NOT EXISTS idx_scores_match_id ON scores(match_id);
					CREATE INDEX IF NOT EXISTS idx_scores_score_type_id ON scores(score_type_id);
					CREATE INDEX IF NOT EXISTS idx_scores_team_id ON scores(team_id);
					CREATE INDEX IF NOT EXISTS idx_scores_alliance_id ON scores(alliance_id);
				`).Error
			},
			Down: func(db *gorm.DB) error {
				// Drop tables in reverse order (because of foreign keys)
				for _, table := range []string{"scores", "match_alliances", "matches"} {
					if err := db.Exec("DROP TABLE IF EXISTS " + table + " CASCADE").Error; err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}
