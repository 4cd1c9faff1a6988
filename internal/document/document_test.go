package document

import "testing"

func TestValidCPF(t *testing.T) {
	cases := map[string]bool{
		"529.982.247-25": true,
		"52998224725":    true,
		"529.982.247-24": false,
		"111.111.111-11": false,
		"000.000.000-00": false,
		"5299822472":     false,
		"":               false,
		"abc":            false,
	}
	for in, want := range cases {
		if got := ValidCPF(in); got != want {
			t.Errorf("ValidCPF(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestValidCNPJ(t *testing.T) {
	cases := map[string]bool{
		"11.222.333/0001-81": true,
		"11222333000181":     true,
		"11.222.333/0001-80": false,
		"00.000.000/0000-00": false,
		"1122233300018":      false,
	}
	for in, want := range cases {
		if got := ValidCNPJ(in); got != want {
			t.Errorf("ValidCNPJ(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestValid_ByType(t *testing.T) {
	if !Valid("cpf", "529.982.247-25") {
		t.Fatal("expected valid cpf")
	}
	if Valid("cnpj", "529.982.247-25") {
		t.Fatal("cpf must not pass as cnpj")
	}
	if Valid("rg", "529.982.247-25") {
		t.Fatal("unknown type must fail")
	}
}

func TestValidAny(t *testing.T) {
	if !ValidAny("11.222.333/0001-81") || !ValidAny("52998224725") {
		t.Fatal("expected both documents valid")
	}
	if ValidAny("123") {
		t.Fatal("short input must fail")
	}
}

func TestDigitsAndType(t *testing.T) {
	if got := Digits(" 529.982.247-25 "); got != "52998224725" {
		t.Fatalf("unexpected digits %q", got)
	}
	if Type("529.982.247-25") != "cpf" || Type("11.222.333/0001-81") != "cnpj" || Type("1") != "" {
		t.Fatal("unexpected type detection")
	}
}
