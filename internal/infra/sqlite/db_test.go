package sqlite

import (
	"testing"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_CreatesSchema(t *testing.T) {
	db := testDB(t)
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestSetGet_RoundTrip(t *testing.T) {
	db := testDB(t)

	if err := db.Set("nq:p1:xp", `{"total":10}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := db.Get("nq:p1:xp")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if v != `{"total":10}` {
		t.Errorf("got %q", v)
	}

	// Overwrite
	_ = db.Set("nq:p1:xp", `{"total":20}`)
	v, _, _ = db.Get("nq:p1:xp")
	if v != `{"total":20}` {
		t.Errorf("overwrite: got %q", v)
	}
}

func TestGet_Missing(t *testing.T) {
	db := testDB(t)
	v, ok, err := db.Get("nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok || v != "" {
		t.Errorf("expected missing, got ok=%v v=%q", ok, v)
	}
}

func TestRemove(t *testing.T) {
	db := testDB(t)
	_ = db.Set("a", "1")
	if err := db.Remove("a"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := db.Get("a"); ok {
		t.Error("expected key removed")
	}
	if err := db.Remove("a"); err != nil {
		t.Errorf("removing missing key should not fail: %v", err)
	}
}

func TestKeys_PrefixIsLiteral(t *testing.T) {
	db := testDB(t)
	for _, k := range []string{"nq:p_1:xp", "nq:p_1:wallet", "nq:pX1:xp", "other"} {
		_ = db.Set(k, "v")
	}

	keys, err := db.Keys("nq:p_1:")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys (underscore must not act as wildcard), got %v", keys)
	}
	if keys[0] != "nq:p_1:wallet" || keys[1] != "nq:p_1:xp" {
		t.Errorf("unexpected order: %v", keys)
	}

	all, _ := db.Keys("")
	if len(all) != 4 {
		t.Errorf("expected 4 keys for empty prefix, got %d", len(all))
	}
}

func TestRemovePrefix(t *testing.T) {
	db := testDB(t)
	_ = db.Set("nq:a:1", "v")
	_ = db.Set("nq:a:2", "v")
	_ = db.Set("nq:b:1", "v")

	n, err := db.RemovePrefix("nq:a:")
	if err != nil {
		t.Fatalf("remove prefix: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 removed, got %d", n)
	}
	if keys, _ := db.Keys("nq:"); len(keys) != 1 {
		t.Errorf("expected 1 remaining, got %v", keys)
	}
}
