package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"popetl/internal/ddl"
)

type stubRepo struct {
	execs []string
	fail  string
}

func (s *stubRepo) Dialect() ddl.Dialect { return stubDialect{} }
func (s *stubRepo) Exec(_ context.Context, q string) error {
	s.execs = append(s.execs, q)
	if s.fail != "" && strings.HasPrefix(q, s.fail) {
		return context.DeadlineExceeded
	}
	return nil
}
func (s *stubRepo) CopyFrom(context.Context, string, []string, [][]any) (int64, error) {
	return 0, nil
}
func (s *stubRepo) QueryStrings(context.Context, string) ([][]string, error) { return nil, nil }
func (s *stubRepo) Close()                                                   {}

type stubDialect struct{}

func (stubDialect) Name() string                { return "stub" }
func (stubDialect) QuoteIdent(id string) string { return `"` + id + `"` }
func (stubDialect) Placeholder(int) string      { return "?" }
func (stubDialect) ColumnType(ddl.ColumnDef) string {
	return "TEXT"
}

func TestNewUnknownKind(t *testing.T) {
	_, err := New(context.Background(), Config{Kind: "nope"})
	if err == nil || !strings.Contains(err.Error(), "unsupported storage.kind=nope") {
		t.Fatalf("err = %v, want unsupported storage.kind", err)
	}
}

func TestRegisterAndListKinds(t *testing.T) {
	Register("stub-b", func(context.Context, Config) (Repository, error) { return &stubRepo{}, nil })
	Register("stub-a", func(context.Context, Config) (Repository, error) { return &stubRepo{}, nil })

	kinds := ListKinds()
	ia, ib := -1, -1
	for i, k := range kinds {
		switch k {
		case "stub-a":
			ia = i
		case "stub-b":
			ib = i
		}
	}
	if ia < 0 || ib < 0 || ia > ib {
		t.Fatalf("ListKinds() = %v, want sorted and containing stub-a, stub-b", kinds)
	}

	r, err := New(context.Background(), Config{Kind: "stub-a"})
	if err != nil {
		t.Fatalf("New(stub-a) error: %v", err)
	}
	if _, ok := r.(*stubRepo); !ok {
		t.Fatalf("New(stub-a) = %T, want *stubRepo", r)
	}
}

func TestRecreateTableDropsThenCreates(t *testing.T) {
	repo := &stubRepo{}
	td := ddl.TableDef{FQN: "results", Columns: []ddl.ColumnDef{{Name: "country_code", Kind: ddl.KindText, PrimaryKey: true}}}

	if err := RecreateTable(context.Background(), repo, td); err != nil {
		t.Fatalf("RecreateTable error: %v", err)
	}
	if len(repo.execs) != 2 {
		t.Fatalf("execs = %v, want 2 statements", repo.execs)
	}
	if repo.execs[0] != `DROP TABLE IF EXISTS "results"` {
		t.Errorf("first exec = %q", repo.execs[0])
	}
	if !strings.HasPrefix(repo.execs[1], `CREATE TABLE "results"`) {
		t.Errorf("second exec = %q", repo.execs[1])
	}
}

func TestRecreateTableWrapsCreateError(t *testing.T) {
	repo := &stubRepo{fail: "CREATE"}
	td := ddl.TableDef{FQN: "results", Columns: []ddl.ColumnDef{{Name: "c", Kind: ddl.KindText}}}

	err := RecreateTable(context.Background(), repo, td)
	if err == nil || !strings.Contains(err.Error(), "create results") {
		t.Fatalf("err = %v, want create results: ...", err)
	}
}

func TestConfigDefaults(t *testing.T) {
	var c Config
	if c.Batch() != DefaultBatchSize {
		t.Fatalf("Batch() = %d, want %d", c.Batch(), DefaultBatchSize)
	}
	if c.Log() == nil {
		t.Fatal("Log() = nil")
	}
}

func TestWithClose(t *testing.T) {
	calls := 0
	r := WithClose(&stubRepo{}, func() { calls++ })
	if r.Dialect().Name() != "stub" {
		t.Fatalf("Dialect() = %q, want stub", r.Dialect().Name())
	}
	r.Close()
	if calls != 1 {
		t.Fatalf("close calls = %d, want 1", calls)
	}

	WithClose(&stubRepo{}, nil).Close()
}

func TestResolveDSN(t *testing.T) {
	build := func(host string, port int, user, password, database string, _ map[string]string) (string, error) {
		if host == "" {
			return "", errors.New("host must not be empty")
		}
		return fmt.Sprintf("%s:%s@%s:%d/%s", user, password, host, port, database), nil
	}

	cases := []struct {
		name    string
		cfg     Config
		want    string
		wantErr string
	}{
		{name: "dsn wins", cfg: Config{DSN: "explicit", Host: "db"}, want: "explicit"},
		{name: "parts", cfg: Config{Host: "db", Port: 5432, User: "u", Password: "p", Database: "pop"}, want: "u:p@db:5432/pop"},
		{name: "builder error", cfg: Config{}, wantErr: "host must not be empty"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.cfg.ResolveDSN(build)
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("err = %v, want %q", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveDSN error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("ResolveDSN() = %q, want %q", got, tc.want)
			}
		})
	}
}
