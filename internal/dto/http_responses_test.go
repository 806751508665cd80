package dto

import "testing"

func TestCheckMembershipFields(t *testing.T) {
	cases := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{
			name: "member with cg number",
			req:  RegisterRequest{IsCGMember: true, CGNumber: "CG-12"},
		},
		{
			name:    "member without cg number",
			req:     RegisterRequest{IsCGMember: true},
			wantErr: true,
		},
		{
			name:    "member with blank cg number",
			req:     RegisterRequest{IsCGMember: true, CGNumber: "   "},
			wantErr: true,
		},
		{
			name: "non-member with referral",
			req:  RegisterRequest{HeardFrom: "Friends"},
		},
		{
			name:    "non-member without referral",
			req:     RegisterRequest{},
			wantErr: true,
		},
		{
			name: "other with elaboration",
			req:  RegisterRequest{HeardFrom: "Other", HeardFromOther: "radio ad"},
		},
		{
			name:    "other with short elaboration",
			req:     RegisterRequest{HeardFrom: "Other", HeardFromOther: " ab "},
			wantErr: true,
		},
		{
			name:    "other without elaboration",
			req:     RegisterRequest{HeardFrom: "Other"},
			wantErr: true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.req.CheckMembershipFields()
			if (err != nil) != c.wantErr {
				t.Errorf("CheckMembershipFields() = %v, wantErr %v", err, c.wantErr)
			}
		})
	}
}
