package models

import "time"

// RelationKind names one of the user-to-target relations that share the
// add/remove lifecycle.
type RelationKind string

const (
	RelationFavorite     RelationKind = "favorite"
	RelationShoppingCart RelationKind = "shopping_cart"
	RelationSubscription RelationKind = "subscription"
)

func (k RelationKind) Valid() bool {
	switch k {
	case RelationFavorite, RelationShoppingCart, RelationSubscription:
		return true
	}
	return false
}

// TargetsUser is true when the target of the relation is another user rather than a recipe.
func (k RelationKind) TargetsUser() bool {
	return k == RelationSubscription
}

// Membership is the storage-independent view of a relation row.
type Membership struct {
	ID        int64        `json:"id"`
	Kind      RelationKind `json:"kind"`
	UserID    int64        `json:"user_id"`
	TargetID  int64        `json:"target_id"`
	CreatedAt time.Time    `json:"created_at"`
}

type Favorite struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    int64     `json:"user_id" gorm:"not null;uniqueIndex:idx_favorites_user_recipe"`
	RecipeID  int64     `json:"recipe_id" gorm:"not null;index;uniqueIndex:idx_favorites_user_recipe"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	User   *User   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Recipe *Recipe `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE;"`
}

func (Favorite) TableName() string {
	return "favorites"
}

func (f Favorite) Membership() Membership {
	return Membership{ID: f.ID, Kind: RelationFavorite, UserID: f.UserID, TargetID: f.RecipeID, CreatedAt: f.CreatedAt}
}

type ShoppingCartItem struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    int64     `json:"user_id" gorm:"not null;uniqueIndex:idx_shopping_cart_user_recipe"`
	RecipeID  int64     `json:"recipe_id" gorm:"not null;index;uniqueIndex:idx_shopping_cart_user_recipe"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	User   *User   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Recipe *Recipe `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE;"`
}

func (ShoppingCartItem) TableName() string {
	return "shopping_cart_items"
}

func (s ShoppingCartItem) Membership() Membership {
	return Membership{ID: s.ID, Kind: RelationShoppingCart, UserID: s.UserID, TargetID: s.RecipeID, CreatedAt: s.CreatedAt}
}

// Subscription means UserID follows AuthorID.
type Subscription struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    int64     `json:"user_id" gorm:"not null;uniqueIndex:idx_subscriptions_user_author;check:chk_subscriptions_not_self,user_id <> author_id"`
	AuthorID  int64     `json:"author_id" gorm:"not null;index;uniqueIndex:idx_subscriptions_user_author"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	User   *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Author *User `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

func (s Subscription) Membership() Membership {
	return Membership{ID: s.ID, Kind: RelationSubscription, UserID: s.UserID, TargetID: s.AuthorID, CreatedAt: s.CreatedAt}
}
