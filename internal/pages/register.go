// ABOUTME: Register page view-model: upload a profile picture, then create the account.
// ABOUTME: The two requests run strictly in order; a failure in either is one generic notice.
package pages

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/2389-research/flasker/internal/api"
)

var errNoPicture = errors.New("no profile picture selected")

// RegisterPage holds the registration form.
type RegisterPage struct {
	deps Deps

	mu       sync.Mutex
	name     string
	password string
	picture  string
}

// NewRegister creates the Register page.
func NewRegister(deps Deps) *RegisterPage {
	return &RegisterPage{deps: deps}
}

// SetName sets the user name field.
func (r *RegisterPage) SetName(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.name = s
}

// SetPassword sets the password field.
func (r *RegisterPage) SetPassword(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.password = s
}

// SetPicture sets the path of the profile picture to upload.
func (r *RegisterPage) SetPicture(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.picture = path
}

// Fields returns the current name, password, and picture path.
func (r *RegisterPage) Fields() (name, password, picture string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.name, r.password, r.picture
}

// Submit uploads the picture and then registers with its URL. The account is
// never created without a successful upload. An upload that succeeded before
// a failed registration is not undone.
func (r *RegisterPage) Submit(ctx context.Context) error {
	name, password, picture := r.Fields()

	fileURL, err := r.upload(ctx, picture)
	if err != nil {
		r.deps.Log.Errorf("Profile picture upload failed: %v", err)
		return r.fail(err)
	}

	user, err := r.deps.API.Register(ctx, api.Registration{
		Name:           name,
		Password:       password,
		ProfilePicture: fileURL,
	})
	if err != nil {
		r.deps.Log.Errorf("Registration failed for %q after upload of %s: %v", name, fileURL, err)
		return r.fail(err)
	}

	r.deps.Session.Set(user.ID)
	r.deps.Log.Infof("Registered user %d", user.ID)
	r.reset()
	r.deps.Notify.Alert("Registration success!")
	r.deps.Nav.Navigate(Route{Name: RouteHome})
	return nil
}

func (r *RegisterPage) upload(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", errNoPicture
	}
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open profile picture: %w", err)
	}
	defer file.Close()

	up, err := r.deps.API.UploadPicture(ctx, filepath.Base(path), file)
	if err != nil {
		return "", err
	}
	return up.FileURL, nil
}

func (r *RegisterPage) fail(err error) error {
	r.reset()
	r.deps.Notify.Alert("Registration failed!")
	return err
}

func (r *RegisterPage) reset() {
	r.mu.Lock()
	r.name, r.password, r.picture = "", "", ""
	r.mu.Unlock()
	r.deps.changed()
}
