package model

import (
	"encoding/json"
	"time"
)

type Card struct {
	ID        string     `gorm:"primaryKey;size:24" json:"_id"`
	Name      string     `gorm:"size:30;not null" json:"name" validate:"required,min=2,max=30"`
	Link      string     `gorm:"size:2048;not null" json:"link" validate:"required,httpurl"`
	OwnerID   string     `gorm:"size:24;not null;index" json:"owner" validate:"required"`
	Owner     *User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
	Likes     []CardLike `gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
	CreatedAt time.Time  `json:"createdAt"`
}

// CardLike is one member of a card's likes set. The composite primary key
// makes membership unique.
type CardLike struct {
	CardID    string    `gorm:"primaryKey;size:24"`
	UserID    string    `gorm:"primaryKey;size:24;index"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

// LikedBy returns the ids of the users in the likes set, never nil.
func (c *Card) LikedBy() []string {
	ids := make([]string, 0, len(c.Likes))
	for _, l := range c.Likes {
		ids = append(ids, l.UserID)
	}
	return ids
}

func (c *Card) IsOwnedBy(userID string) bool {
	return userID != "" && c.OwnerID == userID
}

type cardJSON struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Link      string    `json:"link"`
	Owner     string    `json:"owner"`
	Likes     []string  `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
}

// MarshalJSON renders the likes set as a flat list of user ids.
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(cardJSON{
		ID:        c.ID,
		Name:      c.Name,
		Link:      c.Link,
		Owner:     c.OwnerID,
		Likes:     c.LikedBy(),
		CreatedAt: c.CreatedAt,
	})
}

func (c *Card) UnmarshalJSON(data []byte) error {
	var raw cardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Card{
		ID:        raw.ID,
		Name:      raw.Name,
		Link:      raw.Link,
		OwnerID:   raw.Owner,
		Likes:     make([]CardLike, 0, len(raw.Likes)),
		CreatedAt: raw.CreatedAt,
	}
	for _, userID := range raw.Likes {
		c.Likes = append(c.Likes, CardLike{CardID: raw.ID, UserID: userID})
	}
	return nil
}
