package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "name").
		From("teams").
		Where(Eq("division_id", "123"), Expr("name <> ''")).
		OrderBy("id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, name FROM teams WHERE division_id = $1 AND name <> '' ORDER BY id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "123" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_RequiresTableAndColumns(t *testing.T) {
	if _, _, err := Select().From("teams").ToSQL(); err == nil {
		t.Fatalf("expected error without columns")
	}
	if _, _, err := Select("1").ToSQL(); err == nil {
		t.Fatalf("expected error without table")
	}
}

func TestSelectBuilder_NotExistsSharesPlaceholders(t *testing.T) {
	sub := Select("1").From("teams t").Where(Expr("t.id = g.home_team_id"), Eq("t.division_id", "u12"))
	query, args, err := Select("COUNT(1)").
		From("games g").
		Where(Expr("g.home_score > ?", 50), NotExists(sub)).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT COUNT(1) FROM games g WHERE g.home_score > $1 AND NOT EXISTS (SELECT 1 FROM teams t WHERE t.id = g.home_team_id AND t.division_id = $2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != 50 || args[1] != "u12" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_Or(t *testing.T) {
	query, _, err := Select("COUNT(1)").
		From("games").
		Where(Or(Expr("home_score < 0"), Expr("visitor_score < 0"))).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT COUNT(1) FROM games WHERE (home_score < 0 OR visitor_score < 0)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
}

func TestSelectBuilder_AndExistsInsideOr(t *testing.T) {
	played := Select("1").From("games g").Where(Expr("g.home_team_id = t.id"))
	query, _, err := Select("COUNT(1)").
		From("teams t").
		Where(Or(And(Expr("t.division_id IS NULL"), Exists(played)), Expr("t.id < 0"), Or())).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT COUNT(1) FROM teams t WHERE ((t.division_id IS NULL AND EXISTS (SELECT 1 FROM games g WHERE g.home_team_id = t.id)) OR t.id < 0 OR 1=0)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
}

func TestInsertBuilder_Upsert(t *testing.T) {
	query, args, err := InsertInto("raw_data_payloads").
		Value("entity_key", "divisions_10776").
		Value("payload", "[]").
		OnConflict("entity_key").
		UpdateExcluded("payload").
		UpdateRaw("ingested_at = CURRENT_TIMESTAMP").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO raw_data_payloads (entity_key, payload) VALUES ($1, $2) ON CONFLICT (entity_key) DO UPDATE SET payload = EXCLUDED.payload, ingested_at = CURRENT_TIMESTAMP"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "divisions_10776" || args[1] != "[]" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_ConflictWithoutUpdatesDoesNothing(t *testing.T) {
	query, _, err := InsertInto("teams").Value("id", 1).OnConflict("id").ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}
	if query != "INSERT INTO teams (id) VALUES ($1) ON CONFLICT (id) DO NOTHING" {
		t.Fatalf("unexpected query: %s", query)
	}

	if _, _, err := InsertInto("teams").Value("id", 1).UpdateRaw("id = 2").ToSQL(); err == nil {
		t.Fatalf("expected error for update without conflict target")
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		Key     string `db:"entity_key"`
		Payload string `db:"payload,omitempty"`
		skipped string
		Ignored string `db:"-"`
	}

	builder, err := InsertModel("raw_data_payloads", &row{Key: "k", Payload: "{}", skipped: "x", Ignored: "y"})
	if err != nil {
		t.Fatalf("build insert model: %v", err)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		t.Fatalf("render insert model: %v", err)
	}
	if query != "INSERT INTO raw_data_payloads (entity_key, payload) VALUES ($1, $2)" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 2 || args[0] != "k" || args[1] != "{}" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, err := InsertModel("x", struct{ A int }{}); err == nil {
		t.Fatalf("expected error for model without db columns")
	}
	var nilRow *row
	if _, err := InsertModel("x", nilRow); err == nil {
		t.Fatalf("expected error for nil model")
	}
}
