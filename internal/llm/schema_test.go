package llm

import "testing"

func TestExtractionSchemaAcceptsValidResponse(t *testing.T) {
	schema := BuildExtractionSchema()
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"valid", `{"transactions":[{"date":"2024-03-15","description":"SAFEWAY","amount":42.5}]}`, false},
		{"empty list", `{"transactions":[]}`, false},
		{"negative amount", `{"transactions":[{"date":"03-15","description":"PAYMENT","amount":-100}]}`, false},
		{"missing amount", `{"transactions":[{"date":"2024-03-15","description":"SAFEWAY"}]}`, true},
		{"amount as string", `{"transactions":[{"date":"2024-03-15","description":"X","amount":"42.5"}]}`, true},
		{"empty date", `{"transactions":[{"date":"","description":"X","amount":1}]}`, true},
		{"missing transactions", `{}`, true},
		{"extra property", `{"transactions":[],"note":"hi"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateResponse(schema, []byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Errorf("validate error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBatchCategorizationSchemaEnforcesEnum(t *testing.T) {
	schema := BuildBatchCategorizationSchema([]string{"Groceries", "Fuel", "Other"})
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"valid", `{"assignments":[{"description":"SAFEWAY","category":"Groceries"}]}`, false},
		{"fallback allowed", `{"assignments":[{"description":"???","category":"Other"}]}`, false},
		{"out of set", `{"assignments":[{"description":"X","category":"Rent"}]}`, true},
		{"missing category", `{"assignments":[{"description":"X"}]}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateResponse(schema, []byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Errorf("validate error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSingleCategorizationSchemaEnforcesEnum(t *testing.T) {
	schema := BuildSingleCategorizationSchema([]string{"Groceries", "Other"})

	if err := ValidateResponse(schema, []byte(`{"category":"Groceries"}`)); err != nil {
		t.Errorf("valid category rejected: %v", err)
	}
	if err := ValidateResponse(schema, []byte(`{"category":"Pets"}`)); err == nil {
		t.Error("out-of-set category accepted")
	}
}
