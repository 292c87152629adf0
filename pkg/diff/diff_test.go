package diff

import (
	"strings"
	"testing"
)

const before = `<project>
  <artifactId>app</artifactId>
  <dependencies>
  </dependencies>
</project>
`

const after = `<project>
  <artifactId>app</artifactId>
  <dependencies>
    <dependency>
      <groupId>g</groupId>
    </dependency>
  </dependencies>
</project>
`

func TestUnified(t *testing.T) {
	body, oversize := Unified("a/pom.xml", "b/pom.xml", []byte(before), []byte(after), Options{})
	if oversize {
		t.Fatal("unexpected oversize")
	}

	for _, want := range []string{
		"--- a/pom.xml\n",
		"+++ b/pom.xml\n",
		"@@ ",
		"+    <dependency>\n",
		"+      <groupId>g</groupId>\n",
		"   <dependencies>\n",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("patch missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "\n-") {
		t.Errorf("patch removes lines:\n%s", body)
	}
}

func TestUnifiedIdentical(t *testing.T) {
	body, oversize := Unified("a", "b", []byte(before), []byte(before), Options{})
	if body != "" || oversize {
		t.Errorf("Unified() = %q, %v; want empty", body, oversize)
	}
}

func TestUnifiedOversize(t *testing.T) {
	body, oversize := Unified("a", "b", []byte(before), []byte(after), Options{MaxBytes: 10})
	if !oversize {
		t.Error("oversize = false, want true")
	}
	if !strings.Contains(body, "diff omitted") {
		t.Errorf("body = %q, want placeholder", body)
	}
}

func TestStat(t *testing.T) {
	tests := []struct {
		name        string
		a, b        string
		wantAdded   int
		wantRemoved int
	}{
		{"insert", before, after, 3, 0},
		{"delete", after, before, 0, 3},
		{"replace", "a\nb\nc\n", "a\nx\nc\n", 1, 1},
		{"same", before, before, 0, 0},
		{"empty", "", "x\n", 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			added, removed := Stat([]byte(tt.a), []byte(tt.b))
			if added != tt.wantAdded || removed != tt.wantRemoved {
				t.Errorf("Stat() = +%d -%d, want +%d -%d", added, removed, tt.wantAdded, tt.wantRemoved)
			}
		})
	}
}
