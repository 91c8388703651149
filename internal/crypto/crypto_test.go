package crypto

import "testing"

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	a, err := New(key)
	if err != nil {
		t.Fatal(err)
	}

	for _, plaintext := range []string{"", "hunter2", "pässwörd with unicode ✓"} {
		sealed, err := a.EncryptToString(plaintext)
		if err != nil {
			t.Fatalf("encrypt %q: %v", plaintext, err)
		}
		got, err := a.DecryptString(sealed)
		if err != nil {
			t.Fatalf("decrypt %q: %v", plaintext, err)
		}
		if got != plaintext {
			t.Errorf("round trip = %q, want %q", got, plaintext)
		}
	}
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	a, err := New(key)
	if err != nil {
		t.Fatal(err)
	}

	sealed, err := a.EncryptToString("secret")
	if err != nil {
		t.Fatal(err)
	}

	// Flip a character; authentication must fail.
	b := []byte(sealed)
	if b[len(b)-1] == 'A' {
		b[len(b)-1] = 'B'
	} else {
		b[len(b)-1] = 'A'
	}
	if _, err := a.DecryptString(string(b)); err == nil {
		t.Error("decrypt of tampered ciphertext succeeded")
	}

	if _, err := a.DecryptString("dG9vc2hvcnQ"); err == nil {
		t.Error("decrypt of truncated ciphertext succeeded")
	}
}

func TestDecryptWithWrongKeyFails(t *testing.T) {
	k1, _ := GenerateKey()
	k2, _ := GenerateKey()
	a1, err := New(k1)
	if err != nil {
		t.Fatal(err)
	}
	a2, err := New(k2)
	if err != nil {
		t.Fatal(err)
	}

	sealed, err := a1.EncryptToString("secret")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a2.DecryptString(sealed); err == nil {
		t.Error("decrypt with wrong key succeeded")
	}
}
