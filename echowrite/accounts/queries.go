package accounts

const (
	queryUpsertProfile = `
		INSERT INTO profiles (user_id, email, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET
			email = EXCLUDED.email,
			name = COALESCE(NULLIF(EXCLUDED.name, ''), profiles.name),
			updated_at = NOW()
	`

	queryEnsureUsageRecord = `
		INSERT INTO usage_records (user_id, role, usage_count, max_usage)
		VALUES ($1, 'user', 0, $2)
		ON CONFLICT (user_id) DO NOTHING
	`

	queryFindUsageRecord = `
		SELECT user_id, role, usage_count, max_usage, updated_at
		FROM usage_records
		WHERE user_id = $1
	`

	// the WHERE clause re-validates the ceiling so concurrent requests cannot over-increment
	queryIncrementUsage = `
		UPDATE usage_records
		SET usage_count = usage_count + 1, updated_at = NOW()
		WHERE user_id = $1
			AND (role = 'premium' OR usage_count < max_usage)
		RETURNING user_id, role, usage_count, max_usage, updated_at
	`

	queryActivatePremium = `
		UPDATE usage_records
		SET role = 'premium', updated_at = NOW()
		WHERE user_id = $1
		RETURNING user_id, role, usage_count, max_usage, updated_at
	`

	queryFindProfile = `
		SELECT user_id, email, name
		FROM profiles
		WHERE user_id = $1
	`

	queryCreateMigrationsTable = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`

	queryAppliedMigrations = `
		SELECT version FROM schema_migrations ORDER BY version
	`

	queryRecordMigration = `
		INSERT INTO schema_migrations (version) VALUES ($1)
	`
)
