package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/hockey-ingest/internal/domain/division"
	"github.com/riskibarqy/hockey-ingest/internal/domain/game"
	"github.com/riskibarqy/hockey-ingest/internal/domain/player"
	"github.com/riskibarqy/hockey-ingest/internal/domain/rawdata"
	"github.com/riskibarqy/hockey-ingest/internal/domain/team"
	"github.com/riskibarqy/hockey-ingest/internal/platform/logging"
	"github.com/riskibarqy/hockey-ingest/internal/usecase"
)

func TestWriteRaw_StoresBodyVerbatimAndOverwrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writer := NewWriter(dir, logging.NewNop())
	payload := rawdata.Payload{Endpoint: "standings", SeasonID: "10776", Body: []byte(`[ {"name" : "WHK"} ]`)}

	if err := writer.WriteRaw(context.Background(), payload); err != nil {
		t.Fatalf("write raw: %v", err)
	}
	payload.Body = []byte(`[]`)
	if err := writer.WriteRaw(context.Background(), payload); err != nil {
		t.Fatalf("rewrite raw: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "raw", "standings_10776.json"))
	if err != nil {
		t.Fatalf("read raw: %v", err)
	}
	if string(got) != `[]` {
		t.Fatalf("expected overwritten verbatim body, got=%s", got)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "raw"))
	if err != nil {
		t.Fatalf("read raw dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected no leftover temp files, got=%d entries", len(entries))
	}
}

func TestWriteRaw_RejectsEmptyBody(t *testing.T) {
	t.Parallel()

	writer := NewWriter(t.TempDir(), logging.NewNop())
	err := writer.WriteRaw(context.Background(), rawdata.Payload{Endpoint: "season", SeasonID: "10776"})
	if err == nil {
		t.Fatalf("expected error for empty body")
	}
}

func TestWriteCollections_WritesFourArtifacts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writer := NewWriter(dir, logging.NewNop())
	err := writer.WriteCollections(context.Background(), usecase.Collections{
		Games:     []game.Game{{Date: "2025-09-07", HomeTeam: "Duxbury U12B", AwayTeam: "WHK"}},
		Teams:     []team.Team{{Name: "Duxbury U12B"}, {Name: "WHK"}},
		Divisions: []division.Division{{ID: 123, Name: "U12B"}},
	})
	if err != nil {
		t.Fatalf("write collections: %v", err)
	}

	var games []game.Game
	readJSON(t, filepath.Join(dir, "schedules.json"), &games)
	if len(games) != 1 || games[0].AwayTeam != "WHK" {
		t.Fatalf("unexpected games: %+v", games)
	}

	var teams []team.Team
	readJSON(t, filepath.Join(dir, "teams.json"), &teams)
	if len(teams) != 2 {
		t.Fatalf("expected 2 teams, got=%d", len(teams))
	}

	raw, err := os.ReadFile(filepath.Join(dir, "players.json"))
	if err != nil {
		t.Fatalf("read players: %v", err)
	}
	var players []player.Player
	if err := sonic.Unmarshal(raw, &players); err != nil {
		t.Fatalf("decode players: %v", err)
	}
	if players == nil || len(players) != 0 {
		t.Fatalf("expected players to be an empty array, got=%s", raw)
	}
}

func readJSON(t *testing.T, path string, target any) {
	t.Helper()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
}
