package driver

import (
	"crypto/sha256"
	"testing"

	"github.com/Tomok/cad-dsl/internal/diag"
)

func tempCache(t *testing.T) *DiskCache {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c, err := OpenDiskCache("cadc-test")
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	return c
}

func TestDiskCacheRoundTrip(t *testing.T) {
	c := tempCache(t)
	key := Digest(sha256.Sum256([]byte("sketch S {}")))
	in := &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		Path:        "demo.cad",
		ContentHash: key,
		HasErrors:   true,
		Diagnostics: []CachedDiagnostic{
			{Severity: uint8(diag.SevError), Code: uint16(diag.SemaUndefinedName), Message: `undefined name "w"`, Start: 12, End: 13},
		},
	}
	if err := c.Put(key, in); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var out DiskPayload
	hit, err := c.Get(key, &out)
	if err != nil || !hit {
		t.Fatalf("Get = (%v, %v), want hit", hit, err)
	}
	if out.Path != in.Path || out.HasErrors != in.HasErrors {
		t.Fatalf("payload mangled: %+v", out)
	}
	if len(out.Diagnostics) != 1 || out.Diagnostics[0] != in.Diagnostics[0] {
		t.Fatalf("diagnostics mangled: %+v", out.Diagnostics)
	}
}

func TestDiskCacheMiss(t *testing.T) {
	c := tempCache(t)
	var out DiskPayload
	hit, err := c.Get(Digest(sha256.Sum256([]byte("absent"))), &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Fatal("unexpected hit")
	}
}

func TestDiskCacheSchemaMismatch(t *testing.T) {
	c := tempCache(t)
	key := Digest(sha256.Sum256([]byte("x")))
	in := &DiskPayload{Schema: diskCacheSchemaVersion + 1, Path: "x.cad"}
	if err := c.Put(key, in); err != nil {
		t.Fatalf("Put: %v", err)
	}
	var out DiskPayload
	hit, err := c.Get(key, &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Fatal("schema mismatch must count as a miss")
	}
}

func TestRestoreBag(t *testing.T) {
	p := &DiskPayload{
		Schema:    diskCacheSchemaVersion,
		HasErrors: true,
		Diagnostics: []CachedDiagnostic{
			{Severity: uint8(diag.SevError), Code: uint16(diag.SemaTypeMismatch), Message: "type mismatch", Start: 4, End: 9},
			{Severity: uint8(diag.SevWarning), Code: uint16(diag.LexUnknownUnit), Message: "odd unit", Start: 20, End: 22},
		},
	}
	bag := p.RestoreBag(1, 100)
	if bag.Len() != 2 {
		t.Fatalf("restored = %d, want 2", bag.Len())
	}
	if !bag.HasErrors() {
		t.Fatal("error severity lost")
	}
	d := bag.Items()[0]
	if d.Code != diag.SemaTypeMismatch || d.Primary.Start != 4 || d.Primary.End != 9 {
		t.Fatalf("restored diagnostic mangled: %+v", d)
	}
	if d.Primary.File != 1 {
		t.Fatalf("file id = %v, want 1", d.Primary.File)
	}
}

func TestCheckFileCachedRoundTrip(t *testing.T) {
	c := tempCache(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.cad", brokenSketch)

	// холодный прогон: промах, полный конвейер
	first, fromCache, err := CheckFileCached(path, 100, c)
	if err != nil {
		t.Fatalf("CheckFileCached: %v", err)
	}
	if fromCache {
		t.Fatal("cold run must miss")
	}
	if first.Sema == nil {
		t.Fatal("typed IR missing on a miss")
	}
	if err := c.Put(first.File.Hash, PayloadFromResult(first)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// тёплый прогон: те же диагностики без повторного анализа
	second, fromCache, err := CheckFileCached(path, 100, c)
	if err != nil {
		t.Fatalf("CheckFileCached: %v", err)
	}
	if !fromCache {
		t.Fatal("warm run must hit")
	}
	if second.Sema != nil || second.Resolved != nil {
		t.Fatal("cache hit must not run the pipeline")
	}
	if second.Bag.Len() != first.Bag.Len() || !second.Bag.HasErrors() {
		t.Fatalf("restored diagnostics diverge: %v vs %v", second.Bag.Items(), first.Bag.Items())
	}
	got, want := second.Bag.Items()[0], first.Bag.Items()[0]
	if got.Code != want.Code || got.Primary.Start != want.Primary.Start {
		t.Fatalf("restored diagnostic mangled: %+v, want %+v", got, want)
	}

	// изменённое содержимое — снова промах
	writeFile(t, dir, "bad.cad", cleanSketch)
	third, fromCache, err := CheckFileCached(path, 100, c)
	if err != nil {
		t.Fatalf("CheckFileCached: %v", err)
	}
	if fromCache {
		t.Fatal("changed content must miss")
	}
	if third.Bag.Len() != 0 {
		t.Fatalf("diagnostics: %v", third.Bag.Items())
	}
}

func TestCheckFileCachedNilCache(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "plate.cad", cleanSketch)

	res, fromCache, err := CheckFileCached(path, 100, nil)
	if err != nil {
		t.Fatalf("CheckFileCached: %v", err)
	}
	if fromCache {
		t.Fatal("nil cache cannot hit")
	}
	if res.Bag.Len() != 0 || res.Sema == nil {
		t.Fatalf("pipeline result mangled: %v", res.Bag.Items())
	}
}

func TestDiskCacheDropAll(t *testing.T) {
	c := tempCache(t)
	key := Digest(sha256.Sum256([]byte("y")))
	if err := c.Put(key, &DiskPayload{Schema: diskCacheSchemaVersion}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	var out DiskPayload
	hit, err := c.Get(key, &out)
	if hit {
		t.Fatal("cache survived DropAll")
	}
	// каталог удалён; ErrNotExist — это промах, не ошибка
	if err != nil {
		t.Fatalf("Get after DropAll: %v", err)
	}
}
