// Package model はドメインモデルを定義する。
package model

import "time"

// User はGoogleアカウントでログインするサービス利用ユーザーを表す。
// GoogleIDは外部IdP側の識別子で、行の作成後は変更されない。
type User struct {
	ID        int64
	GoogleID  string
	Email     string
	Name      string
	Picture   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IdentityAssertion はOAuthプロバイダーから取得したプロフィール情報を表す。
// ログイン成功のたびにIdentity Resolverへ渡され、ローカルユーザーに解決される。
type IdentityAssertion struct {
	GoogleID string
	Email    string
	Name     string
	Picture  string
}

// Session はユーザーのログインセッションを表す。
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}
