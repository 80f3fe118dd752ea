package models

// User is a chat user known to the bot.
type User struct {
	ID             string `gorm:"primarykey;type:varchar(64)" json:"id" bson:"id"`
	Username       string `gorm:"type:varchar(255)" json:"username" bson:"username"`
	ReceiveReports bool   `gorm:"not null" json:"receive_reports" bson:"receive_reports"`
	IsAdmin        bool   `gorm:"not null" json:"is_admin" bson:"is_admin"`
	Timezone       string `gorm:"type:varchar(64)" json:"timezone" bson:"timezone"`

	Position int `gorm:"not null" json:"-" bson:"-"`
}

// AdminID is one entry of the persisted admin allow-list.
type AdminID struct {
	UserID string `gorm:"primarykey;type:varchar(64)" json:"user_id"`
}
