package normalization

import (
	"testing"
)

// TestNormalize_Acentos verifica a remoção de acentos e a insensibilidade a caixa
func TestNormalize_Acentos(t *testing.T) {
	if got, want := Normalize("Calça Jeans"), "CALCA JEANS"; got != want {
		t.Errorf("Normalize(\"Calça Jeans\") = %q, want %q", got, want)
	}

	if Normalize("Calça Jeans") != Normalize("CALCA JEANS") {
		t.Error("normalização deve ser insensível a caixa e acentos")
	}

	if got, want := Normalize("Biquíni Azul Marinho"), "BIQUINI AZUL MARINHO"; got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}

// TestNormalize_Idempotente verifica que Normalize(Normalize(x)) == Normalize(x)
func TestNormalize_Idempotente(t *testing.T) {
	inputs := []string{
		"Calça Jeans Masculina 42",
		"  CAMISA   pólo\t(G)  ",
		"Vestido Não-Listrado, 100% Algodão!",
		"ção çã ÇÃO",
		"",
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize não é idempotente para %q: %q != %q", in, once, twice)
		}
	}
}

// TestNormalize_Pontuacao verifica pontuação substituída por espaço e colapso de espaços
func TestNormalize_Pontuacao(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"camisa-polo/azul", "CAMISA POLO AZUL"},
		{"TAM: M (novo)", "TAM M NOVO"},
		{"100% algodão", "100 ALGODAO"},
		{"   ", ""},
		{"a    b", "A B"},
	}

	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

// TestNormalizeAll verifica o descarte de termos vazios após normalização
func TestNormalizeAll(t *testing.T) {
	got := NormalizeAll([]string{"Azul", "", "  ", "Çã", "-"})
	want := []string{"AZUL", "CA"}

	if len(got) != len(want) {
		t.Fatalf("NormalizeAll() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("NormalizeAll()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
