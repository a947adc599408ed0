package migrations

import _ "embed"

//go:embed 0002_create_quiz_results.sql
var createResultsSQL string

func init() {
	Migrations.MustRegister(execSQL(createResultsSQL), execSQL(`DROP TABLE IF EXISTS quiz_results`))
}
