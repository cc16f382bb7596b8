package clients

import (
	"context"
	"fmt"
	"time"
)

type User struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserClient struct {
	c *Client
}

func NewUserClient(baseURL string, timeout time.Duration) *UserClient {
	return &UserClient{c: New(baseURL, timeout)}
}

func (u *UserClient) GetUser(ctx context.Context, id uint) (*User, error) {
	var user User
	if err := u.c.Get(ctx, fmt.Sprintf("/api/users/%d", id), &user); err != nil {
		return nil, err
	}
	return &user, nil
}
