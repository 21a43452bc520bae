package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/hockey-ingest/internal/domain/division"
	"github.com/riskibarqy/hockey-ingest/internal/domain/game"
	"github.com/riskibarqy/hockey-ingest/internal/domain/player"
	"github.com/riskibarqy/hockey-ingest/internal/domain/rawdata"
	"github.com/riskibarqy/hockey-ingest/internal/domain/team"
	"github.com/riskibarqy/hockey-ingest/internal/platform/logging"
	"github.com/riskibarqy/hockey-ingest/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

const (
	rawDirName    = "raw"
	fileMode      = 0o644
	dirMode       = 0o755
	fileSchedules = "schedules.json"
	fileTeams     = "teams.json"
	fileDivisions = "divisions.json"
	filePlayers   = "players.json"
)

// Writer stores raw payloads under <dir>/raw and canonical collections
// directly under <dir>. Every write replaces the previous file.
type Writer struct {
	dir    string
	logger *logging.Logger
}

var (
	_ usecase.RawArchiver      = (*Writer)(nil)
	_ usecase.CollectionWriter = (*Writer)(nil)
)

func NewWriter(dir string, logger *logging.Logger) *Writer {
	if logger == nil {
		logger = logging.Default()
	}
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = "."
	}
	return &Writer{dir: dir, logger: logger}
}

func (w *Writer) RawPath(payload rawdata.Payload) string {
	return filepath.Join(w.dir, rawDirName, payload.Key()+".json")
}

// WriteRaw stores the payload body byte for byte.
func (w *Writer) WriteRaw(ctx context.Context, payload rawdata.Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := payload.Validate(); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}

	path := w.RawPath(payload)
	if err := writeFileAtomic(path, payload.Body); err != nil {
		return fmt.Errorf("write raw payload %s: %w", payload.Key(), err)
	}
	w.logger.DebugContext(ctx, "raw payload archived", "path", path, "bytes", len(payload.Body))
	return nil
}

func (w *Writer) WriteCollections(ctx context.Context, collections usecase.Collections) error {
	games := collections.Games
	if games == nil {
		games = []game.Game{}
	}
	teams := collections.Teams
	if teams == nil {
		teams = []team.Team{}
	}
	divisions := collections.Divisions
	if divisions == nil {
		divisions = []division.Division{}
	}
	players := collections.Players
	if players == nil {
		players = []player.Player{}
	}

	artifacts := []struct {
		name  string
		value any
	}{
		{name: fileSchedules, value: games},
		{name: fileTeams, value: teams},
		{name: fileDivisions, value: divisions},
		{name: filePlayers, value: players},
	}
	for _, artifact := range artifacts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.writeJSON(filepath.Join(w.dir, artifact.name), artifact.value); err != nil {
			return fmt.Errorf("write %s: %w", artifact.name, err)
		}
	}

	w.logger.InfoContext(ctx, "canonical collections written",
		"dir", w.dir,
		"games", len(games),
		"teams", len(teams),
		"divisions", len(divisions),
		"players", len(players),
	)
	return nil
}

func (w *Writer) writeJSON(path string, value any) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	enc := sonic.ConfigStd.NewEncoder(buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return writeFileAtomic(path, buf.B)
}

// writeFileAtomic writes to a temp file in the target directory and renames
// it over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, fileMode); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
