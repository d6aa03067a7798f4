package skeleton

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSkeleton() *InterfaceSkeleton {
	return &InterfaceSkeleton{
		Path:     "src/app.py",
		Language: "python",
		Constants: []ConstantSig{
			{Name: "MAX_RETRIES"},
			{Name: "DEFAULT_TIMEOUT", Type: "float"},
		},
		Functions: []FunctionSig{
			{Name: "run", Parameters: []ParameterSig{{Name: "argv", Type: "list"}}, ReturnType: "int"},
			{Name: "fetch", IsAsync: true},
		},
		Classes: []ClassSig{
			{
				Name:  "Server",
				Bases: []string{"Base", "Mixin"},
				Methods: []FunctionSig{
					{Name: "stop", IsMethod: true},
					{Name: "start", IsMethod: true, Parameters: []ParameterSig{{Name: "port", Type: "int", Default: "8080"}}},
				},
				Constants: []ConstantSig{{Name: "KIND"}},
			},
		},
		Exports: []string{"run", "Server"},
	}
}

func TestRender_Deterministic(t *testing.T) {
	s := sampleSkeleton()
	assert.Equal(t, Render(s), Render(s))
}

func TestRender_OrderIndependent(t *testing.T) {
	a := sampleSkeleton()

	b := sampleSkeleton()
	b.Constants[0], b.Constants[1] = b.Constants[1], b.Constants[0]
	b.Functions[0], b.Functions[1] = b.Functions[1], b.Functions[0]
	b.Classes[0].Methods[0], b.Classes[0].Methods[1] = b.Classes[0].Methods[1], b.Classes[0].Methods[0]
	b.Exports[0], b.Exports[1] = b.Exports[1], b.Exports[0]

	assert.Equal(t, Render(a), Render(b),
		"declaration list order never affects the encoding")
}

func TestRender_BaseOrderPreserved(t *testing.T) {
	a := sampleSkeleton()
	b := sampleSkeleton()
	b.Classes[0].Bases = []string{"Mixin", "Base"}

	assert.NotEqual(t, Render(a), Render(b),
		"class base order is semantic (MRO) and must stay declaration-ordered")
}

func TestRender_PathAndLanguageExcluded(t *testing.T) {
	a := sampleSkeleton()
	b := sampleSkeleton()
	b.Path = "moved/elsewhere.py"
	b.Language = "typescript"

	assert.Equal(t, Render(a), Render(b))
}

func TestRender_EmptySkeletonIsVersionedNonEmpty(t *testing.T) {
	s := &InterfaceSkeleton{Path: "a.py", Language: "python"}
	out := Render(s)
	assert.Equal(t, "ddoc-skeleton v1\n", string(out))
	assert.True(t, s.IsEmpty())
}

func TestRender_SignatureSensitivity(t *testing.T) {
	base := func() FunctionSig {
		return FunctionSig{
			Name:       "f",
			Parameters: []ParameterSig{{Name: "x", Type: "int", Default: "0"}},
			ReturnType: "int",
		}
	}

	variants := map[string]func(*FunctionSig){
		"name":        func(f *FunctionSig) { f.Name = "g" },
		"param name":  func(f *FunctionSig) { f.Parameters[0].Name = "y" },
		"param type":  func(f *FunctionSig) { f.Parameters[0].Type = "str" },
		"default":     func(f *FunctionSig) { f.Parameters[0].Default = "1" },
		"extra param": func(f *FunctionSig) { f.Parameters = append(f.Parameters, ParameterSig{Name: "z"}) },
		"return type": func(f *FunctionSig) { f.ReturnType = "str" },
		"async":       func(f *FunctionSig) { f.IsAsync = true },
		"method":      func(f *FunctionSig) { f.IsMethod = true },
		"static":      func(f *FunctionSig) { f.IsStatic = true },
		"classmethod": func(f *FunctionSig) { f.IsClassMethod = true },
		"property":    func(f *FunctionSig) { f.IsProperty = true },
	}

	reference := Render(&InterfaceSkeleton{Functions: []FunctionSig{base()}})
	for name, mutate := range variants {
		fn := base()
		mutate(&fn)
		mutated := Render(&InterfaceSkeleton{Functions: []FunctionSig{fn}})
		assert.NotEqual(t, reference, mutated, "change in %s must change the encoding", name)
	}
}

func TestRender_Layout(t *testing.T) {
	out := string(Render(sampleSkeleton()))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	require.True(t, len(lines) > 5)
	assert.Equal(t, "ddoc-skeleton v1", lines[0])
	assert.Equal(t, "const DEFAULT_TIMEOUT: float", lines[1])
	assert.Equal(t, "const MAX_RETRIES", lines[2])
	assert.Equal(t, "func fetch() [async]", lines[3])
	assert.Equal(t, "func run(argv: list) -> int", lines[4])
	assert.Equal(t, "class Server(Base, Mixin)", lines[5])
	assert.Equal(t, "  const KIND", lines[6])
	assert.Equal(t, "  func start(port: int = 8080) [method]", lines[7])
	assert.Equal(t, "  func stop() [method]", lines[8])
	assert.Equal(t, "export Server", lines[9])
	assert.Equal(t, "export run", lines[10])
}
