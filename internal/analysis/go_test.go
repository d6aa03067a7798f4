package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoAnalyzer_FunctionsAndConstants(t *testing.T) {
	analyzer := NewGoAnalyzer()
	code := `
package store

const MaxRetries = 3

const (
	DefaultPort int = 8080
	internalFlag   = true
)

func Open(path string, opts ...Option) (*Store, error) { return nil, nil }

func helper() {}
`
	sk, err := analyzer.ExtractInterface([]byte(code))
	require.NoError(t, err)

	require.Len(t, sk.Constants, 2, "unexported constants are hidden")
	assert.Equal(t, "MaxRetries", sk.Constants[0].Name)
	assert.Equal(t, "DefaultPort", sk.Constants[1].Name)
	assert.Equal(t, "int", sk.Constants[1].Type)

	require.Len(t, sk.Functions, 1)
	open := sk.Functions[0]
	assert.Equal(t, "Open", open.Name)
	require.Len(t, open.Parameters, 2)
	assert.Equal(t, "path", open.Parameters[0].Name)
	assert.Equal(t, "string", open.Parameters[0].Type)
	assert.Equal(t, "...Option", open.Parameters[1].Type)
	assert.Equal(t, "(*Store, error)", open.ReturnType)
}

func TestGoAnalyzer_StructsAndMethods(t *testing.T) {
	analyzer := NewGoAnalyzer()
	code := `
package store

type Store struct {
	Path    string
	maxSize int64
	Logger
}

func (s *Store) Get(key string) ([]byte, error) { return nil, nil }

func (s *Store) close() error { return nil }

func (s *Store) Put(key string, value []byte) error { return nil }
`
	sk, err := analyzer.ExtractInterface([]byte(code))
	require.NoError(t, err)
	require.Len(t, sk.Classes, 1)

	cls := sk.Classes[0]
	assert.Equal(t, "Store", cls.Name)
	assert.Equal(t, []string{"Logger"}, cls.Bases, "embedded types are bases")

	require.Len(t, cls.Constants, 1, "unexported fields are hidden")
	assert.Equal(t, "Path", cls.Constants[0].Name)
	assert.Equal(t, "string", cls.Constants[0].Type)

	require.Len(t, cls.Methods, 2, "unexported methods are hidden")
	names := []string{cls.Methods[0].Name, cls.Methods[1].Name}
	assert.ElementsMatch(t, []string{"Get", "Put"}, names)
	for _, m := range cls.Methods {
		assert.True(t, m.IsMethod)
	}
}

func TestGoAnalyzer_MethodBeforeType(t *testing.T) {
	analyzer := NewGoAnalyzer()
	code := `
package store

func (c *Cache) Evict() {}

type Cache struct {
	Size int
}
`
	sk, err := analyzer.ExtractInterface([]byte(code))
	require.NoError(t, err)
	require.Len(t, sk.Classes, 1)
	assert.Equal(t, "Cache", sk.Classes[0].Name)
	require.Len(t, sk.Classes[0].Methods, 1)
	assert.Equal(t, "Evict", sk.Classes[0].Methods[0].Name)
	require.Len(t, sk.Classes[0].Constants, 1)
}

func TestGoAnalyzer_Interfaces(t *testing.T) {
	analyzer := NewGoAnalyzer()
	code := `
package store

import "io"

type Repository interface {
	io.Closer
	Find(id string) (Entity, error)
	Count() int
}
`
	sk, err := analyzer.ExtractInterface([]byte(code))
	require.NoError(t, err)
	require.Len(t, sk.Classes, 1)

	cls := sk.Classes[0]
	assert.Equal(t, "Repository", cls.Name)
	assert.Equal(t, []string{"io.Closer"}, cls.Bases)
	require.Len(t, cls.Methods, 2)
	assert.Equal(t, "Find", cls.Methods[0].Name)
	assert.Equal(t, "(Entity, error)", cls.Methods[0].ReturnType)
	assert.Equal(t, "Count", cls.Methods[1].Name)
	assert.Equal(t, "int", cls.Methods[1].ReturnType)
}

func TestGoAnalyzer_NamedTypes(t *testing.T) {
	analyzer := NewGoAnalyzer()
	code := `
package store

type EntityID string

type handlerFunc func() error
`
	sk, err := analyzer.ExtractInterface([]byte(code))
	require.NoError(t, err)
	require.Len(t, sk.Constants, 1)
	assert.Equal(t, "EntityID", sk.Constants[0].Name)
	assert.Equal(t, "string", sk.Constants[0].Type)
	assert.Empty(t, sk.Classes)
}

func TestRegistry_ForPath(t *testing.T) {
	registry := NewRegistry()

	assert.Equal(t, "python", registry.ForPath("pkg/app.py").Language())
	assert.Equal(t, "javascript", registry.ForPath("web/index.MJS").Language())
	assert.Equal(t, "typescript", registry.ForPath("web/api.ts").Language())
	assert.Equal(t, "go", registry.ForPath("cmd/main.go").Language())
	assert.Nil(t, registry.ForPath("README.md"))
	assert.False(t, registry.Supported("data.bin"))
}

func TestRegistry_UnsupportedLanguageIsNotAnError(t *testing.T) {
	registry := NewRegistry()
	sk, err := registry.ExtractInterface("notes/todo.txt", []byte("anything"))
	require.NoError(t, err)
	assert.Nil(t, sk)
}

func TestRegistry_SetsPath(t *testing.T) {
	registry := NewRegistry()
	sk, err := registry.ExtractInterface("pkg/app.py", []byte("def run():\n    pass\n"))
	require.NoError(t, err)
	require.NotNil(t, sk)
	assert.Equal(t, "pkg/app.py", sk.Path)
	require.Len(t, sk.Functions, 1)
}
