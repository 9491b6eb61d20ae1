package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gophvault/internal/client/documents"
	"github.com/dmitrijs2005/gophvault/internal/client/models"
	"github.com/dmitrijs2005/gophvault/internal/common"
)

// Login asks for email and password. Any credentials are accepted; the
// password is read only to be wiped.
func (a *App) Login(ctx context.Context, args []string) error {
	email, err := a.askEmail(args)
	if err != nil {
		return err
	}
	pw, err := GetPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	p, err := a.session.Login(ctx, email, string(pw))
	if err != nil {
		return err
	}
	a.printf("Welcome back, %s!\n", a.accent.Sprint(p.Name))
	return nil
}

func (a *App) Signup(ctx context.Context, args []string) error {
	email, err := a.askEmail(args)
	if err != nil {
		return err
	}
	name, err := a.ask("Name")
	if err != nil {
		return err
	}
	if name == "" {
		return errEmptyName
	}
	pw, err := GetPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	p, err := a.session.Signup(ctx, email, string(pw), name)
	if err != nil {
		return err
	}
	a.printf("Account created. Welcome, %s!\n", a.accent.Sprint(p.Name))
	return nil
}

func (a *App) askEmail(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	email, err := a.ask("Email")
	if err != nil {
		return "", err
	}
	if email == "" {
		return "", usageError("login <email>")
	}
	return email, nil
}

// Logout drops the profile and resets navigation; vault content stays.
func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	if err := a.vault.SetSelectedFolder(ctx, ""); err != nil {
		return err
	}
	if err := a.vault.SetSelectedCategory(ctx, models.CategoryNone); err != nil {
		return err
	}
	a.printf("Logged out\n")
	return nil
}

func (a *App) Profile(_ context.Context, _ []string) error {
	p, ok := a.session.Profile()
	if !ok {
		return errNotLoggedIn
	}

	a.printf("%s\n", a.title.Sprint(p.Name))
	a.printf("  email:    %s\n", p.Email)
	a.printf("  since:    %s\n", p.CreatedAt.Local().Format("2006-01-02"))
	for _, f := range []struct{ label, value string }{
		{"bio", p.Bio}, {"phone", p.Phone}, {"location", p.Location},
	} {
		if f.value != "" {
			a.printf("  %-9s %s\n", f.label+":", f.value)
		}
	}
	if p.Avatar != "" {
		mime, data, err := documents.DecodeDataURI(p.Avatar)
		if err == nil {
			a.printf("  avatar:   %s, %s\n", mime, models.FormatSize(int64(len(data))))
		}
	}
	return nil
}

// EditProfile prompts for each editable field; an empty answer keeps the
// current value.
func (a *App) EditProfile(ctx context.Context, _ []string) error {
	p, ok := a.session.Profile()
	if !ok {
		return errNotLoggedIn
	}

	var u models.ProfileUpdate
	fields := []struct {
		label   string
		current string
		dst     **string
	}{
		{"Name", p.Name, &u.Name},
		{"Bio", p.Bio, &u.Bio},
		{"Phone", p.Phone, &u.Phone},
		{"Location", p.Location, &u.Location},
	}
	for _, f := range fields {
		v, err := GetOptionalText(a.reader, f.label, f.current, a.out)
		if err != nil {
			return err
		}
		if v != f.current {
			*f.dst = &v
		}
	}

	if u.IsEmpty() {
		a.printf("Nothing changed\n")
		return nil
	}
	if err := a.session.UpdateProfile(ctx, u); err != nil {
		return err
	}
	a.printf("Profile updated\n")
	return nil
}

func (a *App) Avatar(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("avatar <path>")
	}
	uri, err := documents.LoadAvatar(strings.TrimSpace(args[0]))
	if err != nil {
		return err
	}
	if err := a.session.UpdateProfile(ctx, models.ProfileUpdate{Avatar: &uri}); err != nil {
		return err
	}
	a.printf("Avatar updated\n")
	return nil
}
