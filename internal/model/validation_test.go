package model

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

func hasField(errs []FieldError, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func validRegisterRequest() *RegisterRequest {
	return &RegisterRequest{
		Name:            "Ana Lima",
		Email:           "ana@example.com",
		Password:        "Secret1!",
		ConfirmPassword: "Secret1!",
		Address:         "12 Harbour Street",
		Phone:           "5550001111",
		AccountType:     VisibilityPublic,
		ProfilePicture:  &Attachment{Filename: "me.png", ContentType: "image/png", Size: 10},
	}
}

// ============================================================================
// Login
// ============================================================================

func TestLoginRequest_Validate(t *testing.T) {
	t.Parallel()

	req := &LoginRequest{Email: "  ana@example.com ", Password: "x"}
	if errs := req.Validate(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if req.Email != "ana@example.com" {
		t.Errorf("expected trimmed email, got %q", req.Email)
	}

	errs := (&LoginRequest{Email: "not-an-email"}).Validate()
	if !hasField(errs, "email") || !hasField(errs, "password") {
		t.Errorf("expected email and password errors, got %v", errs)
	}
}

// ============================================================================
// Register
// ============================================================================

func TestRegisterRequest_Validate_Valid(t *testing.T) {
	t.Parallel()

	if errs := validRegisterRequest().Validate(); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestRegisterRequest_Validate_Fields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(r *RegisterRequest)
		field  string
	}{
		{"name too short", func(r *RegisterRequest) { r.Name = "Al" }, "name"},
		{"name too long", func(r *RegisterRequest) { r.Name = strings.Repeat("a", 31) }, "name"},
		{"name with digits", func(r *RegisterRequest) { r.Name = "Ana 2" }, "name"},
		{"bad email", func(r *RegisterRequest) { r.Email = "ana@" }, "email"},
		{"weak password", func(r *RegisterRequest) { r.Password, r.ConfirmPassword = "secret11", "secret11" }, "password"},
		{"password too long", func(r *RegisterRequest) {
			r.Password = "Aa1!" + strings.Repeat("a", 27)
			r.ConfirmPassword = r.Password
		}, "password"},
		{"mismatched confirm", func(r *RegisterRequest) { r.ConfirmPassword = "Secret2!" }, "confirm_password"},
		{"short address", func(r *RegisterRequest) { r.Address = "Main St" }, "address"},
		{"short phone", func(r *RegisterRequest) { r.Phone = "12345" }, "phoneno"},
		{"phone with letters", func(r *RegisterRequest) { r.Phone = "555000111a" }, "phoneno"},
		{"unknown account type", func(r *RegisterRequest) { r.AccountType = "friends" }, "accountType"},
		{"missing picture", func(r *RegisterRequest) { r.ProfilePicture = nil }, "profile_pic"},
		{"gif picture", func(r *RegisterRequest) { r.ProfilePicture.ContentType = "image/gif" }, "profile_pic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := validRegisterRequest()
			tt.mutate(req)
			errs := req.Validate()
			if !hasField(errs, tt.field) {
				t.Errorf("expected error on %s, got %v", tt.field, errs)
			}
		})
	}
}

func TestRegisterRequest_Validate_PhoneAllowsPlus(t *testing.T) {
	t.Parallel()

	req := validRegisterRequest()
	req.Phone = " +5550001111 "
	if errs := req.Validate(); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

// ============================================================================
// Password Policy
// ============================================================================

func TestStructValidator_CustomTagsRegistered(t *testing.T) {
	v := structValidator()

	tests := []struct {
		tag   string
		value string
		ok    bool
	}{
		{"alphaspace", "Ana Lima", true},
		{"alphaspace", "Ana 2", false},
		{"phone", "+5551234567", true},
		{"phone", "12345", false},
		{"address", "12 Long Street", true},
		{"address", "Home", false},
		{"password", "Secret1!", true},
		{"password", "password", false},
	}
	for _, tt := range tests {
		err := v.Var(tt.value, tt.tag)
		if (err == nil) != tt.ok {
			t.Errorf("%s(%q): expected ok=%v, got %v", tt.tag, tt.value, tt.ok, err)
		}
	}
}

func TestMustRegister_PanicsOnBadTag(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for an empty tag")
		}
	}()
	mustRegister(validator.New(), "", func(validator.FieldLevel) bool { return true })
}

func TestPasswordPolicyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pw      string
		maxLen  int
		wantErr string
	}{
		{"Secret1!", MaxPasswordLength, ""},
		{"Sh0rt!", MaxPasswordLength, "at least"},
		{"Aa1!" + strings.Repeat("b", 40), MaxPasswordLength, "at most"},
		{"Aa1!" + strings.Repeat("b", 40), 0, ""},
		{"secret1!", MaxPasswordLength, "uppercase"},
		{"Secret1#", MaxPasswordLength, "may only contain"},
		{"Sécret1!", MaxPasswordLength, "unsupported"},
	}

	for _, tt := range tests {
		got := PasswordPolicyError(tt.pw, tt.maxLen)
		if tt.wantErr == "" {
			if got != "" {
				t.Errorf("%q: expected pass, got %q", tt.pw, got)
			}
			continue
		}
		if !strings.Contains(got, tt.wantErr) {
			t.Errorf("%q: expected %q in %q", tt.pw, tt.wantErr, got)
		}
	}
}

func TestIsCommonPassword(t *testing.T) {
	t.Parallel()

	if !IsCommonPassword("PASSWORD") {
		t.Error("common passwords match case-insensitively")
	}
	if IsCommonPassword("Secret1!") {
		t.Error("Secret1! is not on the list")
	}
}

// ============================================================================
// Password Reset
// ============================================================================

func TestResetPasswordRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		req   ResetPasswordRequest
		field string
	}{
		{"missing token", ResetPasswordRequest{NewPassword: "Secret1!", ConfirmPassword: "Secret1!"}, "token"},
		{"missing confirm", ResetPasswordRequest{Token: "t", NewPassword: "Secret1!"}, "new_password"},
		{"common", ResetPasswordRequest{Token: "t", NewPassword: "password", ConfirmPassword: "password"}, "new_password"},
		{"weak", ResetPasswordRequest{Token: "t", NewPassword: "abcdefgh", ConfirmPassword: "abcdefgh"}, "new_password"},
		{"mismatch", ResetPasswordRequest{Token: "t", NewPassword: "Secret1!", ConfirmPassword: "Secret2!"}, "confirm_password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := tt.req
			if errs := req.Validate(); !hasField(errs, tt.field) {
				t.Errorf("expected error on %s, got %v", tt.field, errs)
			}
		})
	}
}

func TestResetPasswordRequest_Validate_NoUpperBound(t *testing.T) {
	t.Parallel()

	long := "Aa1!" + strings.Repeat("z", 60)
	req := ResetPasswordRequest{Token: "t", NewPassword: " " + long, ConfirmPassword: long}
	if errs := req.Validate(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if req.NewPassword != long {
		t.Error("expected the trimmed password to be kept")
	}
}

// ============================================================================
// Profile
// ============================================================================

func TestUpdateProfileRequest_Validate(t *testing.T) {
	t.Parallel()

	req := &UpdateProfileRequest{
		Username:    " ana ",
		Email:       "ana@example.com",
		AccountType: "PRIVATE",
	}
	if errs := req.Validate(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if req.Username != "ana" || req.AccountType != VisibilityPrivate {
		t.Errorf("expected normalised fields, got %q %q", req.Username, req.AccountType)
	}

	bad := &UpdateProfileRequest{Username: "an", Email: "x", AccountType: VisibilityPublic, Phone: "12"}
	errs := bad.Validate()
	for _, field := range []string{"username", "email", "phoneNo"} {
		if !hasField(errs, field) {
			t.Errorf("expected error on %s, got %v", field, errs)
		}
	}
}

func TestProfileRecord_ViewFor(t *testing.T) {
	t.Parallel()

	p := &ProfileRecord{
		ID:          "u1",
		Username:    "ana",
		Email:       "ana@example.com",
		Phone:       "+5550001111",
		Address:     "12 Harbour Street",
		AccountType: VisibilityPrivate,
	}

	owner := p.ViewFor("u1")
	if !owner.IsOwner || !owner.ContactVisible || owner.Email == "" {
		t.Errorf("owner should see contact details: %+v", owner)
	}

	stranger := p.ViewFor("u2")
	if stranger.IsOwner || stranger.ContactVisible {
		t.Errorf("stranger should not see a private profile's contact: %+v", stranger)
	}
	if stranger.Email != "" || stranger.Phone != "" || stranger.Address != "" {
		t.Errorf("contact fields should be cleared: %+v", stranger)
	}
	if p.Email == "" {
		t.Error("ViewFor must not modify the record")
	}

	p.AccountType = VisibilityPublic
	if v := p.ViewFor(""); !v.ContactVisible || v.IsOwner {
		t.Errorf("public contact is visible to anyone: %+v", v)
	}
}

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":              "",
		"5550001111":    "+5550001111",
		"+5550001111":   "+5550001111",
		" ++5550001111": "+5550001111",
	}
	for in, want := range cases {
		if got := NormalizePhone(in); got != want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestProfileFromRecord_StripsPlus(t *testing.T) {
	t.Parallel()

	req := ProfileFromRecord(&ProfileRecord{Username: "ana", Phone: "+5550001111", AccountType: VisibilityPublic})
	if req.Phone != "5550001111" || req.Username != "ana" {
		t.Errorf("unexpected form: %+v", req)
	}
}

// ============================================================================
// Posts
// ============================================================================

func TestUploadPostRequest_Validate(t *testing.T) {
	t.Parallel()

	ok := &UploadPostRequest{
		Description: "sunset",
		Videos:      []Attachment{{Filename: "a.mp4", ContentType: "video/mp4", Size: 1024}},
	}
	if errs := ok.Validate(0); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	bad := &UploadPostRequest{
		Description: "  ",
		Videos: []Attachment{
			{Filename: "big.mp4", ContentType: "video/mp4", Size: 2 << 20},
			{Filename: "clip.mov", ContentType: "video/quicktime", Size: 10},
		},
	}
	errs := bad.Validate(1 << 20)
	for _, field := range []string{"description", "videos[0]", "videos[1]"} {
		if !hasField(errs, field) {
			t.Errorf("expected error on %s, got %v", field, errs)
		}
	}

	if errs := (&UploadPostRequest{Description: "x"}).Validate(0); !hasField(errs, "videos") {
		t.Errorf("expected videos error, got %v", errs)
	}
}

// ============================================================================
// Users and Cursors
// ============================================================================

func TestParseVisibility(t *testing.T) {
	t.Parallel()

	cases := map[string]Visibility{
		"private":   VisibilityPrivate,
		" Private ": VisibilityPrivate,
		"public":    VisibilityPublic,
		"":          VisibilityPublic,
		"anything":  VisibilityPublic,
	}
	for in, want := range cases {
		if got := ParseVisibility(in); got != want {
			t.Errorf("ParseVisibility(%q) = %q, want %q", in, got, want)
		}
	}
	if Visibility("friends").IsValid() {
		t.Error("friends is not a visibility")
	}
}

func TestCursor_PageAndAdvance(t *testing.T) {
	t.Parallel()

	var c Cursor
	if c.Page(6) != 1 {
		t.Errorf("zero cursor is page 1, got %d", c.Page(6))
	}
	c = c.Advance(6).Advance(6)
	if c.Offset != 12 || c.Page(6) != 3 {
		t.Errorf("expected offset 12 on page 3, got %d / %d", c.Offset, c.Page(6))
	}
	if c.Page(0) != 1 {
		t.Error("non-positive page size falls back to page 1")
	}
}

func TestRequestAction_IsValid(t *testing.T) {
	t.Parallel()

	if !RequestActionApprove.IsValid() || !RequestActionReject.IsValid() {
		t.Error("approve and reject are valid")
	}
	if RequestAction("ignore").IsValid() {
		t.Error("ignore is not a request action")
	}
}
