package sql

import "testing"

func TestRebind(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		query   string
		want    string
	}{
		{
			name:    "mysql left untouched",
			dialect: DialectMySQL,
			query:   "SELECT * FROM label_record WHERE id = ?",
			want:    "SELECT * FROM label_record WHERE id = ?",
		},
		{
			name:    "postgres single placeholder",
			dialect: DialectPostgres,
			query:   "SELECT * FROM label_record WHERE id = ?",
			want:    "SELECT * FROM label_record WHERE id = $1",
		},
		{
			name:    "postgres multiple placeholders",
			dialect: DialectPostgres,
			query:   "INSERT INTO review_task (id, status) VALUES (?, ?)",
			want:    "INSERT INTO review_task (id, status) VALUES ($1, $2)",
		},
		{
			name:    "postgres no placeholders",
			dialect: DialectPostgres,
			query:   "SELECT 1",
			want:    "SELECT 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Store{dialect: tt.dialect}
			if got := s.rebind(tt.query); got != tt.want {
				t.Errorf("rebind(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}
