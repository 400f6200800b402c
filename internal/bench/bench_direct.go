package bench

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/neosmart/gosqlite"
	"github.com/neosmart/gosqlite/internal/bench/benchbar"
)

// runDirectBenchmarks exercises the gosqlite API without going through
// database/sql.
func runDirectBenchmarks(path string, conf benchConfig) ([]benchmarkResult, error) {
	db, err := gosqlite.Open(path, gosqlite.DefaultOpenFlags)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	benchs := []func(*gosqlite.DB, benchConfig) (benchmarkResult, error){
		runDirectSimple,
		runDirectScalar,
		runDirectLarge,
	}

	var results []benchmarkResult
	for _, bench := range benchs {
		for _, stmt := range schemaStatements() {
			if _, err := db.ExecDML(stmt); err != nil {
				return nil, err
			}
		}

		res, err := bench(db, conf)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	return results, nil
}

// runDirectSimple inserts X users through one prepared statement and then
// walks all of them with a single cursor.
func runDirectSimple(db *gosqlite.DB, conf benchConfig) (benchmarkResult, error) {
	start := time.Now()
	var totalReads uint64 = 0
	var totalWrites uint64 = 0

	if _, err := db.ExecDML("BEGIN"); err != nil {
		return benchmarkResult{}, err
	}

	stmt, err := db.CompileStatement(
		"INSERT INTO users (created, email, active) VALUES (?, ?, ?)",
	)
	if err != nil {
		return benchmarkResult{}, err
	}

	bar := benchbar.NewBar(
		fmt.Sprintf("Inserting %d users", conf.insertUsers), conf.insertUsers,
	)
	for idx := 0; idx < conf.insertUsers; idx++ {
		if err := stmt.BindInt64(1, time.Now().Unix()); err != nil {
			return benchmarkResult{}, err
		}
		if err := stmt.BindText(2, fmt.Sprintf("user%d@example.com", idx)); err != nil {
			return benchmarkResult{}, err
		}
		if err := stmt.BindInt(3, 1); err != nil {
			return benchmarkResult{}, err
		}

		rows, err := stmt.ExecDML()
		if err != nil {
			return benchmarkResult{}, err
		}
		totalWrites += uint64(rows)
		bar.Inc()
	}
	if err := stmt.Finalize(); err != nil {
		return benchmarkResult{}, err
	}

	if _, err := db.ExecDML("COMMIT"); err != nil {
		return benchmarkResult{}, err
	}
	bar.Finish()

	bar = benchbar.NewBar("Reading users", 1)
	query, err := db.ExecQuery(
		"SELECT id, created, email, active FROM users ORDER BY id",
	)
	if err != nil {
		return benchmarkResult{}, err
	}
	for {
		eof, err := query.EOF()
		if err != nil {
			return benchmarkResult{}, err
		}
		if eof {
			break
		}
		if _, err := query.GetStringField(2, ""); err != nil {
			return benchmarkResult{}, err
		}
		totalReads++
		if err := query.NextRow(); err != nil {
			return benchmarkResult{}, err
		}
	}
	if err := query.Finalize(); err != nil {
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

// runDirectScalar runs Y single-row aggregate queries.
func runDirectScalar(db *gosqlite.DB, conf benchConfig) (benchmarkResult, error) {
	start := time.Now()
	var totalReads uint64 = 0

	if _, err := db.ExecDML(
		"INSERT INTO users (created, email, active) VALUES (0, 'scalar@example.com', 1)",
	); err != nil {
		return benchmarkResult{}, err
	}

	bar := benchbar.NewBar(
		fmt.Sprintf("Running %d scalar queries", conf.queryUserTimes), conf.queryUserTimes,
	)
	for i := 0; i < conf.queryUserTimes; i++ {
		if _, err := db.ExecScalar("SELECT COUNT(*) FROM users"); err != nil {
			return benchmarkResult{}, err
		}
		totalReads++
		bar.Inc()
	}
	bar.Finish()

	return benchmarkResult{
		Name:        "Scalar",
		Duration:    time.Since(start),
		TotalReads:  totalReads,
		TotalWrites: 1,
	}, nil
}

// runDirectLarge inserts X rows of Y random bytes each and reads them back.
func runDirectLarge(db *gosqlite.DB, conf benchConfig) (benchmarkResult, error) {
	start := time.Now()
	var totalReads uint64 = 0
	var totalWrites uint64 = 0

	payload := make([]byte, conf.blobBytes)
	if _, err := rand.Read(payload); err != nil {
		return benchmarkResult{}, err
	}

	if _, err := db.ExecDML("BEGIN"); err != nil {
		return benchmarkResult{}, err
	}

	stmt, err := db.CompileStatement("INSERT INTO blobs (data) VALUES (?)")
	if err != nil {
		return benchmarkResult{}, err
	}

	bar := benchbar.NewBar(
		fmt.Sprintf("Inserting %d blobs of %d bytes", conf.blobRows, conf.blobBytes),
		conf.blobRows,
	)
	for i := 0; i < conf.blobRows; i++ {
		if err := stmt.BindBlob(1, payload); err != nil {
			return benchmarkResult{}, err
		}
		rows, err := stmt.ExecDML()
		if err != nil {
			return benchmarkResult{}, err
		}
		totalWrites += uint64(rows)
		bar.Inc()
	}
	if err := stmt.Finalize(); err != nil {
		return benchmarkResult{}, err
	}

	if _, err := db.ExecDML("COMMIT"); err != nil {
		return benchmarkResult{}, err
	}
	bar.Finish()

	bar = benchbar.NewBar("Reading blobs", 1)
	query, err := db.ExecQuery("SELECT id, data FROM blobs ORDER BY id")
	if err != nil {
		return benchmarkResult{}, err
	}
	for {
		eof, err := query.EOF()
		if err != nil {
			return benchmarkResult{}, err
		}
		if eof {
			break
		}
		if _, err := query.GetBlobField(1); err != nil {
			return benchmarkResult{}, err
		}
		totalReads++
		if err := query.NextRow(); err != nil {
			return benchmarkResult{}, err
		}
	}
	if err := query.Finalize(); err != nil {
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
