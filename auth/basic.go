package auth

import (
	"encoding/base64"

	"github.com/lemconn/venuelink/types"
)

// BasicToken Authorization: Basic base64(uid/apiKey:password)，表单中带 nonce
type BasicToken struct {
	Exchange   string
	NonceParam string
	Nonce      *Nonce
}

var _ Signer = (*BasicToken)(nil)

// Sign 实现 Signer
func (s *BasicToken) Sign(req *Request, creds Credentials) (*Request, error) {
	if err := creds.Require(s.Exchange, FieldUID, FieldAPIKey, FieldPassword); err != nil {
		return nil, err
	}
	out := req.Clone()

	form := types.NewExValues()
	form.Set(field(s.NonceParam, "nonce"), s.Nonce.NextString())
	if out.Form != nil {
		form.Merge(out.Form)
	} else {
		form.Merge(out.Query)
		out.Query = types.NewExValues()
	}
	out.SetFormBody(form)

	token := base64.StdEncoding.EncodeToString([]byte(creds.UID + "/" + creds.APIKey + ":" + creds.Password))
	out.Headers.Set("Authorization", "Basic "+token)
	if err := out.Encode(); err != nil {
		return nil, err
	}
	return out, nil
}
