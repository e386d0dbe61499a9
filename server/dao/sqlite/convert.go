package sqlite

import (
	"encoding/base64"
	"fmt"
	"net/mail"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/dekarrin/tunacon/dynamic"
	"github.com/dekarrin/tunacon/server/dao"
	"github.com/google/uuid"
)

// These convert between model values and the values stored in columns. Each
// convertFromDB_ function returns an error matching dao.ErrDecodingFailure if
// the stored value cannot be decoded.

func convertToDB_UUID(u uuid.UUID) string {
	return u.String()
}

func convertFromDB_UUID(s string, target *uuid.UUID) error {
	u, err := uuid.Parse(s)
	if err != nil {
		return fmt.Errorf("%w: %s", dao.ErrDecodingFailure, err)
	}
	*target = u
	return nil
}

func convertToDB_Time(t time.Time) int64 {
	return t.Unix()
}

func convertFromDB_Time(i int64, target *time.Time) error {
	*target = time.Unix(i, 0)
	return nil
}

func convertToDB_Role(r dao.Role) string {
	return r.String()
}

func convertFromDB_Role(s string, target *dao.Role) error {
	r, err := dao.ParseRole(s)
	if err != nil {
		return fmt.Errorf("%w: %s", dao.ErrDecodingFailure, err)
	}
	*target = r
	return nil
}

func convertToDB_Email(email *mail.Address) string {
	if email == nil {
		return ""
	}
	return email.Address
}

func convertFromDB_Email(s string, target **mail.Address) error {
	if s == "" {
		*target = nil
		return nil
	}

	email, err := mail.ParseAddress(s)
	if err != nil {
		return fmt.Errorf("%w: %s", dao.ErrDecodingFailure, err)
	}
	*target = email
	return nil
}

func convertToDB_Value(v dynamic.Value) string {
	data := rezi.EncBinary(v)
	return base64.StdEncoding.EncodeToString(data)
}

func convertFromDB_Value(s string, target *dynamic.Value) error {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return fmt.Errorf("%w: %s", dao.ErrDecodingFailure, err)
	}

	var v dynamic.Value
	if _, err := rezi.DecBinary(data, &v); err != nil {
		return fmt.Errorf("%w: %s", dao.ErrDecodingFailure, err)
	}
	*target = v
	return nil
}
