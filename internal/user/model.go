package user

import "time"

// User is the example resource scaffolded with the framework. The soft-delete
// flag is a plain boolean managed through the DAO, not gorm.DeletedAt.
type User struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"column:email;not null;uniqueIndex:idx_users_email" json:"email"`
	Password  string    `gorm:"column:password;not null" json:"password,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
	IsDeleted bool      `gorm:"column:is_deleted;not null;default:false" json:"is_deleted"`
}

// TableName specifies the table name for User
func (*User) TableName() string {
	return "users"
}
