package repository

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quarrypkg/quarry/internal/config"
)

// Lays out a fake repository cache with one local repository holding
// the given recipe files under core/<name>/.
func testCache(t *testing.T, name string, files ...string) *Cache {
	t.Helper()

	root := t.TempDir()
	repo := filepath.Join(root, "repo")
	pkgDir := filepath.Join(repo, "core", name)

	if err := os.MkdirAll(pkgDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, file := range files {
		if err := os.WriteFile(filepath.Join(pkgDir, file), []byte("name="+name+"\n"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	cfg := &config.Config{
		RepositoryCacheDir: root,
		Repositories:       []string{repo},
		PackageStreams:     []string{"core"},
		RecipeSuffix:       ".recipe",
	}

	return New(cfg)
}

func TestFindRecipeExactVersion(t *testing.T) {
	cache := testCache(t, "foo", "foo-1.0.recipe", "foo-1.2.recipe")

	path, err := cache.FindRecipe("foo/1.0")
	if err != nil {
		t.Fatalf("FindRecipe: %v", err)
	}
	if filepath.Base(path) != "foo-1.0.recipe" {
		t.Fatalf("resolved %q, want foo-1.0.recipe", path)
	}
}

func TestFindRecipeLatestWithoutRequest(t *testing.T) {
	cache := testCache(t, "foo", "foo-1.0.recipe", "foo-1.2.recipe")

	path, err := cache.FindRecipe("foo")
	if err != nil {
		t.Fatalf("FindRecipe: %v", err)
	}
	if filepath.Base(path) != "foo-1.2.recipe" {
		t.Fatalf("resolved %q, want foo-1.2.recipe", path)
	}
}

func TestFindRecipeNoMatchingVersion(t *testing.T) {
	cache := testCache(t, "foo", "foo-1.0.recipe", "foo-1.2.recipe")

	path, err := cache.FindRecipe("foo/9.9")
	if err != nil {
		t.Fatalf("FindRecipe: %v", err)
	}
	if path != "" {
		t.Fatalf("resolved %q, want no match", path)
	}
}

func TestFindRecipeUnknownPackage(t *testing.T) {
	cache := testCache(t, "foo", "foo-1.0.recipe")

	path, err := cache.FindRecipe("bar")
	if err != nil {
		t.Fatalf("FindRecipe: %v", err)
	}
	if path != "" {
		t.Fatalf("resolved %q, want no match", path)
	}
}

func TestFindRecipeMalformedAtom(t *testing.T) {
	cache := testCache(t, "foo", "foo-1.0.recipe")

	if _, err := cache.FindRecipe("foo/1.0/extra"); !errors.Is(err, ErrMalformedAtom) {
		t.Fatalf("err = %v, want ErrMalformedAtom", err)
	}
	if _, err := cache.FindRecipe(""); !errors.Is(err, ErrMalformedAtom) {
		t.Fatalf("err = %v, want ErrMalformedAtom", err)
	}
}

func TestFindRecipeDirectPathBypass(t *testing.T) {
	dir := t.TempDir()
	recipe := filepath.Join(dir, "custom.recipe")
	if err := os.WriteFile(recipe, []byte("name=custom\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := &config.Config{RepositoryCacheDir: filepath.Join(dir, "missing-cache")}
	cache := New(cfg)

	path, err := cache.FindRecipe(recipe)
	if err != nil {
		t.Fatalf("FindRecipe: %v", err)
	}
	if path != recipe {
		t.Fatalf("resolved %q, want the path unchanged", path)
	}
}

func TestFindRecipeUninitializedCache(t *testing.T) {
	cfg := &config.Config{
		RepositoryCacheDir: filepath.Join(t.TempDir(), "does-not-exist"),
		PackageStreams:     []string{"core"},
		RecipeSuffix:       ".recipe",
	}
	cache := New(cfg)

	if _, err := cache.FindRecipe("foo"); !errors.Is(err, ErrCacheUninitialized) {
		t.Fatalf("err = %v, want ErrCacheUninitialized", err)
	}
}

func TestFindRecipeSkipsVersionlessFile(t *testing.T) {
	cache := testCache(t, "foo", "foo-.recipe", "foo-1.0.recipe")

	path, err := cache.FindRecipe("foo")
	if err != nil {
		t.Fatalf("FindRecipe: %v", err)
	}
	if filepath.Base(path) != "foo-1.0.recipe" {
		t.Fatalf("resolved %q, want foo-1.0.recipe", path)
	}
}

func TestFindRecipeIgnoresForeignFiles(t *testing.T) {
	cache := testCache(t, "foo", "foo-1.0.recipe", "README.md", "other-2.0.recipe")

	path, err := cache.FindRecipe("foo")
	if err != nil {
		t.Fatalf("FindRecipe: %v", err)
	}
	if filepath.Base(path) != "foo-1.0.recipe" {
		t.Fatalf("resolved %q, want foo-1.0.recipe", path)
	}
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		entry string
		kind  RefKind
	}{
		{"https://example.org/recipes.git", KindGit},
		{"git@example.org:recipes.git", KindGit},
		{"ssh://git@example.org/recipes.git", KindGit},
		{"/srv/recipes", KindLocal},
		{"relative/recipes", KindLocal},
	}

	for _, tt := range tests {
		if got := ParseRef(tt.entry); got.Kind != tt.kind {
			t.Fatalf("ParseRef(%q).Kind = %d, want %d", tt.entry, got.Kind, tt.kind)
		}
	}
}

func TestCachePathDistinguishesSameBasename(t *testing.T) {
	a := ParseRef("https://one.example.org/recipes.git")
	b := ParseRef("https://two.example.org/recipes.git")

	pathA := a.CachePath("/cache")
	pathB := b.CachePath("/cache")

	if pathA == pathB {
		t.Fatalf("cache paths collide: %q", pathA)
	}
	if !strings.HasPrefix(filepath.Base(pathA), "recipes-") {
		t.Fatalf("cache path %q not derived from basename", pathA)
	}
}

func TestCachePathLocalRefUsedInPlace(t *testing.T) {
	ref := ParseRef("/srv/recipes")
	if got := ref.CachePath("/cache"); got != "/srv/recipes" {
		t.Fatalf("CachePath = %q, want /srv/recipes", got)
	}
}
