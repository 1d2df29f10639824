package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsHTTPURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://pictures.s3.yandex.net/resources/jacques-cousteau_1604399756.png", true},
		{"http://example.com", true},
		{"https://www.example.com/a/b?c=d#e", true},
		{"ftp://example.com", false},
		{"example.com", false},
		{"https://localhost", false},
		{"", false},
		{"javascript:alert(1)", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsHTTPURL(tt.in), tt.in)
	}
}

func TestValidate_User(t *testing.T) {
	valid := User{Email: "a@x.com"}
	valid.ApplyDefaults()
	assert.NoError(t, Validate(&valid))

	tests := []struct {
		name   string
		mutate func(*User)
	}{
		{"short name", func(u *User) { u.Name = "A" }},
		{"long about", func(u *User) { u.About = strings.Repeat("a", 31) }},
		{"bad avatar", func(u *User) { u.Avatar = "not a url" }},
		{"bad email", func(u *User) { u.Email = "nope" }},
		{"missing email", func(u *User) { u.Email = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := valid
			tt.mutate(&u)
			assert.Error(t, Validate(&u))
		})
	}
}

func TestValidate_NameCountsRunes(t *testing.T) {
	u := User{Email: "a@x.com", Name: strings.Repeat("ж", 30)}
	u.ApplyDefaults()
	assert.NoError(t, Validate(&u))
}

func TestValidatePartial(t *testing.T) {
	u := User{Name: "ok name", About: "x"}
	assert.NoError(t, ValidatePartial(&u, "Name"))
	assert.Error(t, ValidatePartial(&u, "About"))
}

func TestValidate_Card(t *testing.T) {
	c := Card{Name: "Baikal", Link: "https://example.com/baikal.jpg", OwnerID: "5f8d0d55b54764421b7156c9"}
	assert.NoError(t, Validate(&c))

	c.Link = "baikal.jpg"
	assert.Error(t, Validate(&c))

	c.Link = "https://example.com/baikal.jpg"
	c.Name = ""
	assert.Error(t, Validate(&c))
}

func TestCard_LikedByAndOwner(t *testing.T) {
	c := Card{OwnerID: "a"}
	assert.Equal(t, []string{}, c.LikedBy())
	c.Likes = []CardLike{{UserID: "a"}, {UserID: "b"}}
	assert.Equal(t, []string{"a", "b"}, c.LikedBy())
	assert.True(t, c.IsOwnedBy("a"))
	assert.False(t, c.IsOwnedBy("b"))
	assert.False(t, (&Card{}).IsOwnedBy(""))
}
