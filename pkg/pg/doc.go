// Package pg connects to PostgreSQL through a pgx pool, applies goose
// migrations from an embedded filesystem and classifies driver errors.
//
//	pool, err := pg.Connect(ctx, cfg.Postgres)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, migrations.FS, cfg.Postgres, log); err != nil {
//		return err
//	}
//
// Storage code accepts a DBTX so the same queries run on the pool or inside
// WithTx. IsNotFoundError and IsDuplicateKeyError map pgx errors to domain
// errors without importing pgconn in every package.
package pg
