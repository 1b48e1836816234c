package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/and161185/signup-wizard/internal/errs"
	"github.com/and161185/signup-wizard/internal/model"
)

func ptr(v int64) *int64 { return &v }

func TestEmail(t *testing.T) {
	t.Parallel()
	for _, s := range []string{"a@b.co", "john.doe@example.com", "x@y.z"} {
		assert.True(t, Email(s), s)
	}
	for _, s := range []string{"", "a", "a@b", "@b.co", "a@.co", "a@b.", "a b@c.d", "a@@b.co", "a@b@c.d"} {
		assert.False(t, Email(s), s)
	}
	// unicode and vertical whitespace count as whitespace too
	for _, s := range []string{"a\u00a0b@c.d", "a\vb@c.d", "a@b.c\u2028", "a@b\u3000.cd", "\ufeffa@b.cd", "a@b.c\u2029"} {
		assert.False(t, Email(s), "%q", s)
	}
	assert.True(t, Email("jöhn@exämple.de"))
}

func TestEmail_Property_RequiresAtAndDottedDomain(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "s")
		if !Email(s) {
			return
		}
		at := strings.Count(s, "@")
		if at != 1 {
			t.Fatalf("accepted %q with %d @", s, at)
		}
		domain := s[strings.Index(s, "@")+1:]
		if !strings.Contains(domain, ".") {
			t.Fatalf("accepted %q without dot in domain", s)
		}
	})
}

func TestPassword(t *testing.T) {
	t.Parallel()
	assert.True(t, Password("Abcdef1!"))
	assert.False(t, Password("abcdefgh"))
	assert.False(t, Password("Ab1!"))
	assert.False(t, Password("ABCDEFG1!"), "no lowercase")
	assert.False(t, Password("Abcdefgh!"), "no digit")
	assert.False(t, Password("Abcdefgh1"), "no special")
	assert.False(t, Password("Abcdefg1?"), "special outside set")
	assert.False(t, Password("Ab1!éé"), "six characters, eight bytes")
	assert.True(t, Password("Ab1!éééé"))
}

func TestPhone(t *testing.T) {
	t.Parallel()
	assert.True(t, Phone(ptr(1234567890)))
	assert.True(t, Phone(ptr(5551234567)))
	assert.False(t, Phone(ptr(123)))
	assert.False(t, Phone(nil))
	assert.False(t, Phone(ptr(0)))
	assert.False(t, Phone(ptr(12345678901)))
	assert.False(t, Phone(ptr(-123456789)))
}

func TestRequired_Terms_Match(t *testing.T) {
	t.Parallel()
	assert.False(t, Required(""))
	assert.True(t, Required(" "))
	assert.True(t, Terms(true))
	assert.False(t, Terms(false))
	assert.True(t, PasswordsMatch("Abcdef1!", "Abcdef1!"))
	assert.False(t, PasswordsMatch("Abcdef1!", "abcdef1!"))
}

func TestAttachment(t *testing.T) {
	t.Parallel()
	require.NoError(t, Attachment(nil))
	require.NoError(t, Attachment(&model.Attachment{Size: MaxAttachmentSize, MIMEType: "image/png"}))

	err := Attachment(&model.Attachment{Size: 6_000_000, MIMEType: "image/png"})
	require.ErrorIs(t, err, errs.ErrAttachmentTooLarge)
	require.ErrorIs(t, err, errs.ErrAttachmentRejected)
	assert.Equal(t, MsgFileTooLarge, AttachmentMessage(err))

	err = Attachment(&model.Attachment{Size: 10, MIMEType: "application/pdf"})
	require.ErrorIs(t, err, errs.ErrAttachmentType)
	require.ErrorIs(t, err, errs.ErrAttachmentRejected)
	assert.Equal(t, MsgFileType, AttachmentMessage(err))

	assert.Equal(t, "", AttachmentMessage(nil))
	assert.False(t, errors.Is(errs.ErrAttachmentType, errs.ErrAttachmentTooLarge))
}

func TestParsePhone(t *testing.T) {
	t.Parallel()
	assert.Nil(t, ParsePhone(""))
	assert.Nil(t, ParsePhone("abc"))
	require.NotNil(t, ParsePhone("5551234567"))
	assert.Equal(t, int64(5551234567), *ParsePhone("5551234567"))
	assert.Equal(t, int64(555), *ParsePhone("555-1234"))
	assert.Equal(t, int64(42), *ParsePhone("  42x"))
	assert.Equal(t, int64(42), *ParsePhone("\u00a0\v42"))
	assert.Nil(t, ParsePhone("99999999999999999999999"))
}

func TestStep_IdentityReportsOnlyMissingOrInvalid(t *testing.T) {
	t.Parallel()

	got := Step(model.StepIdentity, model.Draft{})
	assert.Equal(t, model.ValidationErrors{
		model.FieldFirstName: MsgRequired,
		model.FieldLastName:  MsgRequired,
		model.FieldEmail:     MsgRequired,
		model.FieldPhone:     MsgRequired,
	}, got)

	got = Step(model.StepIdentity, model.Draft{FirstName: "A", Email: "nope", Phone: ptr(12)})
	assert.Equal(t, model.ValidationErrors{
		model.FieldLastName: MsgRequired,
		model.FieldEmail:    MsgInvalidEmail,
		model.FieldPhone:    MsgInvalidPhone,
	}, got)

	ok := model.Draft{FirstName: "A", LastName: "B", Email: "a@b.com", Phone: ptr(5551234567)}
	assert.Empty(t, Step(model.StepIdentity, ok))
}

func TestStep_IgnoresOtherSteps(t *testing.T) {
	t.Parallel()
	d := model.Draft{FirstName: "A", LastName: "B", Email: "a@b.com", Phone: ptr(5551234567)}
	// step 2 and 3 fields are empty but must not block step 1
	assert.True(t, Step(model.StepIdentity, d).Valid())

	d2 := model.Draft{Username: "u", Password: "Abcdef1!", ConfirmPassword: "Abcdef1!"}
	assert.True(t, Step(model.StepCredentials, d2).Valid())
}

func TestStep_Credentials(t *testing.T) {
	t.Parallel()
	got := Step(model.StepCredentials, model.Draft{Password: "weak", ConfirmPassword: "other"})
	assert.Equal(t, model.ValidationErrors{
		model.FieldUsername:        MsgRequired,
		model.FieldPassword:        MsgWeakPassword,
		model.FieldConfirmPassword: MsgPasswordMismatch,
	}, got)
}

func TestStep_Consent(t *testing.T) {
	t.Parallel()
	got := Step(model.StepConsent, model.Draft{})
	assert.Equal(t, model.ValidationErrors{model.FieldTerms: MsgTerms}, got)

	got = Step(model.StepConsent, model.Draft{
		TermsAccepted: true,
		File:          &model.Attachment{Size: 6_000_000, MIMEType: "image/png"},
	})
	assert.Equal(t, model.ValidationErrors{model.FieldFile: MsgFileTooLarge}, got)
}

func TestStep_Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := model.Draft{
			FirstName: rapid.String().Draw(t, "first"),
			LastName:  rapid.String().Draw(t, "last"),
			Email:     rapid.String().Draw(t, "email"),
		}
		if rapid.Bool().Draw(t, "hasPhone") {
			p := rapid.Int64().Draw(t, "phone")
			d.Phone = &p
		}
		a := Step(model.StepIdentity, d)
		b := Step(model.StepIdentity, d)
		if len(a) != len(b) {
			t.Fatalf("len differs: %v vs %v", a, b)
		}
		for k, v := range a {
			if b[k] != v {
				t.Fatalf("field %s differs: %q vs %q", k, v, b[k])
			}
		}
	})
}
