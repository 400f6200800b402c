package bench

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"time"

	"github.com/neosmart/gosqlite/internal/bench/benchbar"
	"github.com/neosmart/gosqlite/sqlitedrv"
)

// runSQLBenchmarks exercises the same workloads through database/sql.
func runSQLBenchmarks(ctx context.Context, path string, conf benchConfig) ([]benchmarkResult, error) {
	connector := sqlitedrv.NewConnector(path)
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(1)
	defer db.Close()

	benchs := []func(context.Context, *sql.DB, benchConfig) (benchmarkResult, error){
		runSQLSimple,
		runSQLMany,
		runSQLLarge,
	}

	var results []benchmarkResult
	for _, bench := range benchs {
		for _, stmt := range schemaStatements() {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return nil, err
			}
		}

		res, err := bench(ctx, db, conf)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	return results, nil
}

// runSQLSimple inserts X users inside one transaction and then queries all of
// them in a single query.
func runSQLSimple(ctx context.Context, db *sql.DB, conf benchConfig) (benchmarkResult, error) {
	start := time.Now()
	var totalReads uint64 = 0
	var totalWrites uint64 = 0

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return benchmarkResult{}, err
	}

	stmt, err := tx.PrepareContext(
		ctx, "INSERT INTO users (created, email, active) VALUES (?, ?, ?)",
	)
	if err != nil {
		return benchmarkResult{}, err
	}

	bar := benchbar.NewBar(
		fmt.Sprintf("Inserting %d users", conf.insertUsers), conf.insertUsers,
	)
	for idx := 0; idx < conf.insertUsers; idx++ {
		res, err := stmt.ExecContext(
			ctx, time.Now().Unix(), fmt.Sprintf("user%d@example.com", idx), 1,
		)
		if err != nil {
			return benchmarkResult{}, err
		}
		rowsAffected, err := res.RowsAffected()
		if err != nil {
			return benchmarkResult{}, err
		}
		totalWrites += uint64(rowsAffected)
		bar.Inc()
	}
	if err := stmt.Close(); err != nil {
		return benchmarkResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return benchmarkResult{}, err
	}
	bar.Finish()

	bar = benchbar.NewBar("Reading users", 1)
	rows, err := db.QueryContext(
		ctx, "SELECT id, created, email, active FROM users ORDER BY id",
	)
	if err != nil {
		return benchmarkResult{}, err
	}
	for rows.Next() {
		var id, created, active int
		var email string
		if err := rows.Scan(&id, &created, &email, &active); err != nil {
			return benchmarkResult{}, err
		}
		totalReads++
	}
	if err := rows.Err(); err != nil {
		return benchmarkResult{}, err
	}
	if err := rows.Close(); err != nil {
		return benchmarkResult{}, err
	}
	bar.Finish()

	return benchmarkResult{
		Name:        "Simple",
		Duration:    time.Since(start),
		TotalReads:  totalReads,
		TotalWrites: totalWrites,
	}, nil
}

// runSQLMany inserts X users and then queries one of them Y times.
func runSQLMany(ctx context.Context, db *sql.DB, conf benchConfig) (benchmarkResult, error) {
	start := time.Now()
	var totalReads uint64 = 0
	var totalWrites uint64 = 0

	bar := benchbar.NewBar(
		fmt.Sprintf("Inserting %d users", conf.queryUserTimes), conf.queryUserTimes,
	)
	for idx := 0; idx < conf.queryUserTimes; idx++ {
		res, err := db.ExecContext(
			ctx, "INSERT INTO users (created, email, active) VALUES (?, ?, ?)",
			time.Now().Unix(), fmt.Sprintf("user%d@example.com", idx), 1,
		)
		if err != nil {
			return benchmarkResult{}, err
		}
		rowsAffected, err := res.RowsAffected()
		if err != nil {
			return benchmarkResult{}, err
		}
		totalWrites += uint64(rowsAffected)
		bar.Inc()
	}
	bar.Finish()

	bar = benchbar.NewBar(
		fmt.Sprintf("Querying one user %d times", conf.queryUserTimes), conf.queryUserTimes,
	)
	for i := 0; i < conf.queryUserTimes; i++ {
		var email string
		err := db.QueryRowContext(
			ctx, "SELECT email FROM users WHERE id = ?", 1,
		).Scan(&email)
		if err != nil {
			return benchmarkResult{}, err
		}
		totalReads++
		bar.Inc()
	}
	bar.Finish()

	return benchmarkResult{
		Name:        "Many",
		Duration:    time.Since(start),
		TotalReads:  totalReads,
		TotalWrites: totalWrites,
	}, nil
}

// runSQLLarge inserts X rows of Y random bytes each and reads them back.
func runSQLLarge(ctx context.Context, db *sql.DB, conf benchConfig) (benchmarkResult, error) {
	start := time.Now()
	var totalReads uint64 = 0
	var totalWrites uint64 = 0

	payload := make([]byte, conf.blobBytes)
	if _, err := rand.Read(payload); err != nil {
		return benchmarkResult{}, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return benchmarkResult{}, err
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO blobs (data) VALUES (?)")
	if err != nil {
		return benchmarkResult{}, err
	}

	bar := benchbar.NewBar(
		fmt.Sprintf("Inserting %d blobs of %d bytes", conf.blobRows, conf.blobBytes),
		conf.blobRows,
	)
	for i := 0; i < conf.blobRows; i++ {
		res, err := stmt.ExecContext(ctx, payload)
		if err != nil {
			return benchmarkResult{}, err
		}
		rowsAffected, err := res.RowsAffected()
		if err != nil {
			return benchmarkResult{}, err
		}
		totalWrites += uint64(rowsAffected)
		bar.Inc()
	}
	if err := stmt.Close(); err != nil {
		return benchmarkResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return benchmarkResult{}, err
	}
	bar.Finish()

	bar = benchbar.NewBar("Reading blobs", 1)
	rows, err := db.QueryContext(ctx, "SELECT id, data FROM blobs ORDER BY id")
	if err != nil {
		return benchmarkResult{}, err
	}
	for rows.Next() {
		var id int
		var data []byte
		if err := rows.Scan(&id, &data); err != nil {
			return benchmarkResult{}, err
		}
		totalReads++
	}
	if err := rows.Err(); err != nil {
		return benchmarkResult{}, err
	}
	if err := rows.Close(); err != nil {
		return benchmarkResult{}, err
	}
	bar.Finish()

	return benchmarkResult{
		Name:        "Large",
		Duration:    time.Since(start),
		TotalReads:  totalReads,
		TotalWrites: totalWrites,
	}, nil
}
