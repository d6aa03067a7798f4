package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/ddoc/internal/skeleton"
)

func TestPythonAnalyzer_Language(t *testing.T) {
	analyzer := NewPythonAnalyzer()
	assert.Equal(t, "python", analyzer.Language())
	assert.Contains(t, analyzer.Extensions(), ".py")
}

func TestPythonAnalyzer_Functions(t *testing.T) {
	analyzer := NewPythonAnalyzer()
	code := `
def greet(name):
    return f"Hello, {name}"

async def fetch_data(url: str, timeout: float = 5.0) -> dict:
    pass

def _internal_helper():
    pass
`
	sk, err := analyzer.ExtractInterface([]byte(code))
	require.NoError(t, err)
	require.Len(t, sk.Functions, 2, "private functions stay out of the skeleton")

	greet := findFunction(t, sk, "greet")
	assert.False(t, greet.IsAsync)
	require.Len(t, greet.Parameters, 1)
	assert.Equal(t, "name", greet.Parameters[0].Name)

	fetch := findFunction(t, sk, "fetch_data")
	assert.True(t, fetch.IsAsync)
	assert.Equal(t, "dict", fetch.ReturnType)
	require.Len(t, fetch.Parameters, 2)
	assert.Equal(t, "str", fetch.Parameters[0].Type)
	assert.Equal(t, "timeout", fetch.Parameters[1].Name)
	assert.Equal(t, "float", fetch.Parameters[1].Type)
	assert.Equal(t, "5.0", fetch.Parameters[1].Default)
}

func TestPythonAnalyzer_Classes(t *testing.T) {
	analyzer := NewPythonAnalyzer()
	code := `
class Animal(Base, metaclass=ABCMeta):
    KIND = "animal"

    def __init__(self, name):
        self.name = name

    def speak(self):
        pass

    def _groom(self):
        pass

    @staticmethod
    def registry():
        pass

    @classmethod
    def create(cls, name):
        return cls(name)

    @property
    def label(self):
        return self.name
`
	sk, err := analyzer.ExtractInterface([]byte(code))
	require.NoError(t, err)
	require.Len(t, sk.Classes, 1)

	cls := sk.Classes[0]
	assert.Equal(t, "Animal", cls.Name)
	assert.Equal(t, []string{"Base"}, cls.Bases, "metaclass keyword is not a base")
	require.Len(t, cls.Constants, 1)
	assert.Equal(t, "KIND", cls.Constants[0].Name)

	names := make(map[string]skeleton.FunctionSig)
	for _, m := range cls.Methods {
		names[m.Name] = m
	}
	assert.Len(t, names, 5, "_groom is private")

	init := names["__init__"]
	assert.True(t, init.IsMethod)
	require.Len(t, init.Parameters, 1, "self is elided")
	assert.Equal(t, "name", init.Parameters[0].Name)

	assert.True(t, names["registry"].IsStatic)
	assert.Empty(t, names["registry"].Parameters, "static methods keep all parameters")
	assert.True(t, names["create"].IsClassMethod)
	require.Len(t, names["create"].Parameters, 1, "cls is elided")
	assert.True(t, names["label"].IsProperty)
}

func TestPythonAnalyzer_ModuleConstants(t *testing.T) {
	analyzer := NewPythonAnalyzer()
	code := `
MAX_RETRIES = 3
timeout_default: float = 5.0
plain_variable = 42
_PRIVATE_LIMIT = 10
`
	sk, err := analyzer.ExtractInterface([]byte(code))
	require.NoError(t, err)
	require.Len(t, sk.Constants, 2)

	assert.Equal(t, "MAX_RETRIES", sk.Constants[0].Name)
	assert.Equal(t, "", sk.Constants[0].Type)
	assert.Equal(t, "timeout_default", sk.Constants[1].Name)
	assert.Equal(t, "float", sk.Constants[1].Type)
}

func TestPythonAnalyzer_AllExports(t *testing.T) {
	analyzer := NewPythonAnalyzer()

	sk, err := analyzer.ExtractInterface([]byte(`__all__ = ["greet", "Animal"]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"greet", "Animal"}, sk.Exports)

	// A dynamic __all__ is treated as empty, not an error
	sk, err = analyzer.ExtractInterface([]byte(`__all__ = ["a"] + extra`))
	require.NoError(t, err)
	assert.Empty(t, sk.Exports)

	sk, err = analyzer.ExtractInterface([]byte(`__all__ = ["a", name]`))
	require.NoError(t, err)
	assert.Empty(t, sk.Exports)
}

func TestPythonAnalyzer_ParameterSeparators(t *testing.T) {
	analyzer := NewPythonAnalyzer()
	code := `
def configure(host, /, port=8080, *, tls=False, **opts):
    pass
`
	sk, err := analyzer.ExtractInterface([]byte(code))
	require.NoError(t, err)
	require.Len(t, sk.Functions, 1)

	var names []string
	for _, p := range sk.Functions[0].Parameters {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"host", "/", "port", "*", "tls", "**opts"}, names)
}

func TestPythonAnalyzer_MalformedSource(t *testing.T) {
	analyzer := NewPythonAnalyzer()
	code := `
def good():
    pass

def broken(:
    this is not python

class StillHere:
    pass
`
	sk, err := analyzer.ExtractInterface([]byte(code))
	require.NoError(t, err, "syntax errors never surface as errors")
	assert.NotNil(t, sk)

	names := make(map[string]bool)
	for _, fn := range sk.Functions {
		names[fn.Name] = true
	}
	assert.True(t, names["good"], "declarations before the error survive")
}

func TestPythonAnalyzer_Deterministic(t *testing.T) {
	analyzer := NewPythonAnalyzer()
	code := []byte(`
class B(A):
    def z(self): pass
    def a(self): pass

LIMIT = 1

def standalone(x: int) -> int:
    return x
`)
	first, err := analyzer.ExtractInterface(code)
	require.NoError(t, err)
	second, err := analyzer.ExtractInterface(code)
	require.NoError(t, err)
	assert.Equal(t, skeleton.Render(first), skeleton.Render(second))
}

func findFunction(t *testing.T, sk *skeleton.InterfaceSkeleton, name string) skeleton.FunctionSig {
	t.Helper()
	for _, fn := range sk.Functions {
		if fn.Name == name {
			return fn
		}
	}
	t.Fatalf("function %q not found", name)
	return skeleton.FunctionSig{}
}
