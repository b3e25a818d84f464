package compiler

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marionette-lang/marionette/pkgs/graph"
	"github.com/marionette-lang/marionette/pkgs/lexer"
	"github.com/marionette-lang/marionette/pkgs/parser"
	"github.com/marionette-lang/marionette/pkgs/registry"
	"github.com/marionette-lang/marionette/pkgs/resolver"
)

const siteManifest = `
# one tier of a toy site
$scripts = 'scripts'

file { '/tmp/one': ensure => present }
file { '/tmp/two': ensure => present }
file { '/tmp/two/three': ensure => present }
file { '/tmp/two/four': ensure => absent }
service { 'nginx':
  ensure => running,
  enable => true,
}
exec { "/root/${scripts}/yo.sh": command => '/bin/true' }
foo::bar { 'hello': }

File['/tmp/two'] -> [File['/tmp/two/three'], File['/tmp/two/four']] ~> Service['nginx']
Service['nginx'] <- File['/tmp/one']
Exec["/root/${scripts}/yo.sh"] <~ Foo::Bar['hello']
`

func TestCompile(t *testing.T) {
	c, err := Compile(siteManifest)
	require.NoError(t, err)

	require.Len(t, c.Nodes(), 7)
	require.Len(t, c.Edges(), 6)

	order := make([]string, 0, len(c.Order()))
	for _, id := range c.Order() {
		order = append(order, id.String())
	}
	assert.Equal(t, []string{
		"File[/tmp/one]",
		"File[/tmp/two]",
		"File[/tmp/two/three]",
		"File[/tmp/two/four]",
		"Service[nginx]",
		"Foo::Bar[hello]",
		"Exec[/root/${scripts}/yo.sh]",
	}, order)

	// Every edge source precedes its target.
	pos := make(map[registry.Identity]int)
	for i, id := range c.Order() {
		pos[id] = i
	}
	for _, e := range c.Edges() {
		assert.Less(t, pos[e.Source], pos[e.Target], "edge %s", e.String())
	}
}

func TestCompileDeterministic(t *testing.T) {
	first, err := Compile(siteManifest)
	require.NoError(t, err)
	second, err := Compile(siteManifest)
	require.NoError(t, err)

	if diff := cmp.Diff(first.Canonicalize(), second.Canonicalize()); diff != "" {
		t.Fatalf("repeated compilations disagree (-first +second):\n%s", diff)
	}

	h1, err := first.Hash()
	require.NoError(t, err)
	h2, err := second.Hash()
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestCompileErrors(t *testing.T) {
	t.Run("lex error", func(t *testing.T) {
		_, err := Compile("file { '/tmp/unterminated }")
		var lexErr *lexer.LexError
		require.ErrorAs(t, err, &lexErr)
	})

	t.Run("parse error", func(t *testing.T) {
		_, err := Compile("file { '/tmp/one' ensure => present }")
		var parseErr *parser.ParseError
		require.ErrorAs(t, err, &parseErr)
	})

	t.Run("duplicate resource", func(t *testing.T) {
		_, err := Compile(`
file { '/tmp/one': }
File { '/tmp/one': }
`)
		var dup *registry.DuplicateResourceError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "file", dup.Identity.Type)
	})

	t.Run("unresolved references", func(t *testing.T) {
		_, err := Compile(`
file { '/tmp/one': }
File['/tmp/one'] -> Service['missing']
`)
		var unresolved *resolver.UnresolvedReferenceError
		require.ErrorAs(t, err, &unresolved)
		require.Len(t, unresolved.References, 1)
	})

	t.Run("dependency cycle", func(t *testing.T) {
		_, err := Compile(`
file { '/a': }
file { '/b': }
File['/a'] -> File['/b']
File['/b'] -> File['/a']
`)
		var cycleErr *graph.CycleError
		require.ErrorAs(t, err, &cycleErr)
		assert.Equal(t, "dependency cycle: File[/a] -> File[/b] -> File[/a]", err.Error())
	})

	t.Run("cycle through mixed operators", func(t *testing.T) {
		_, err := Compile(`
file { '/a': }
service { 's': }
File['/a'] ~> Service['s']
File['/a'] <- Service['s']
`)
		var cycleErr *graph.CycleError
		require.ErrorAs(t, err, &cycleErr)
	})
}

func TestCompileForwardReferences(t *testing.T) {
	// Chains may precede the declarations they name.
	c, err := Compile(`
File['/tmp/one'] -> Service['ssh']

file { '/tmp/one': }
service { 'ssh': }
`)
	require.NoError(t, err)
	require.Len(t, c.Edges(), 1)
}

func TestCompileEmptyManifest(t *testing.T) {
	c, err := Compile("")
	require.NoError(t, err)
	assert.Empty(t, c.Nodes())
	assert.Empty(t, c.Edges())
	assert.Empty(t, c.Order())

	c, err = Compile("# nothing but comments\n")
	require.NoError(t, err)
	assert.Empty(t, c.Nodes())
}

func TestCompileFormatIsStable(t *testing.T) {
	first, err := Compile(siteManifest)
	require.NoError(t, err)

	second, err := Compile(first.Format())
	require.NoError(t, err)

	assert.Equal(t, first.Format(), second.Format())
}
