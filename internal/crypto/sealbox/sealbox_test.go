package sealbox

import (
	"bytes"
	"crypto/subtle"
	"os"
	"path/filepath"
	"testing"
)

func TestRand_LengthUniq(t *testing.T) {
	t.Parallel()
	const n = 48
	a, err := Rand(n)
	if err != nil {
		t.Fatalf("Rand: %v", err)
	}
	if len(a) != n {
		t.Fatalf("len=%d, want=%d", len(a), n)
	}
	b, _ := Rand(n)
	if bytes.Equal(a, b) {
		t.Fatalf("Rand produced equal slices")
	}
}

func TestDeriveKey_DeterministicAndSaltDependent(t *testing.T) {
	t.Parallel()
	pw := []byte("secret-pass")
	s1 := []byte("salt-1")
	k1 := DeriveKey(pw, s1)
	if subtle.ConstantTimeCompare(k1, DeriveKey(pw, s1)) != 1 {
		t.Fatalf("DeriveKey not deterministic")
	}
	if subtle.ConstantTimeCompare(k1, DeriveKey(pw, []byte("salt-2"))) != 0 {
		t.Fatalf("DeriveKey must change with salt")
	}
	if len(k1) != KeyLen {
		t.Fatalf("key len=%d", len(k1))
	}
}

func TestSubKey_PerName(t *testing.T) {
	t.Parallel()
	m, _ := Rand(KeyLen)
	a, err := SubKey(m, "formData")
	if err != nil {
		t.Fatalf("SubKey: %v", err)
	}
	b, _ := SubKey(m, "formData")
	c, _ := SubKey(m, "other")
	if !bytes.Equal(a, b) || bytes.Equal(a, c) {
		t.Fatalf("SubKey must be deterministic per name and differ across names")
	}
}

func TestSealOpen(t *testing.T) {
	t.Parallel()
	k, _ := Rand(KeyLen)
	pt := []byte(`{"firstName":"A"}`)

	blob, err := Seal(k, []byte("formData"), pt)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	out, err := Open(k, []byte("formData"), blob)
	if err != nil || !bytes.Equal(out, pt) {
		t.Fatalf("Open: %q %v", out, err)
	}
	if _, err := Open(k, []byte("other"), blob); err == nil {
		t.Fatalf("want error on aad mismatch")
	}
	blob[len(blob)-1] ^= 1
	if _, err := Open(k, []byte("formData"), blob); err == nil {
		t.Fatalf("want error on tamper")
	}
	if _, err := Open(k, nil, []byte{1, 2}); err != ErrShort {
		t.Fatalf("want ErrShort, got %v", err)
	}
}

func TestLoadOrCreate(t *testing.T) {
	t.Parallel()
	p := filepath.Join(t.TempDir(), "sub", "seal.key")
	a, err := LoadOrCreate(p, KeyLen)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b, err := LoadOrCreate(p, KeyLen)
	if err != nil || !bytes.Equal(a, b) {
		t.Fatalf("reload mismatch: %v", err)
	}
	if err := os.WriteFile(p, []byte("short"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOrCreate(p, KeyLen); err == nil {
		t.Fatalf("want error on wrong length")
	}
}

func TestMasterKey(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	k1, err := MasterKey(dir, "")
	if err != nil {
		t.Fatalf("random key: %v", err)
	}
	k2, _ := MasterKey(dir, "")
	if !bytes.Equal(k1, k2) {
		t.Fatalf("random key must persist")
	}

	p1, err := MasterKey(dir, "hunter2")
	if err != nil {
		t.Fatalf("passphrase key: %v", err)
	}
	p2, _ := MasterKey(dir, "hunter2")
	if !bytes.Equal(p1, p2) || bytes.Equal(p1, k1) {
		t.Fatalf("passphrase key must be stable and distinct from the random key")
	}
}
