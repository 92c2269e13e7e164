package repository

import (
	"context"
	"database/sql"

	"github.com/oportunizando/oportunizando/internal/model"
)

// PostgresOpportunityRepo はPostgreSQLを使用した機会リポジトリ。読み取り専用。
type PostgresOpportunityRepo struct {
	db *sql.DB
}

// NewPostgresOpportunityRepo はPostgresOpportunityRepoを生成する。
func NewPostgresOpportunityRepo(db *sql.DB) *PostgresOpportunityRepo {
	return &PostgresOpportunityRepo{db: db}
}

// FindByID は指定IDの機会を取得する。見つからない場合はnilを返す。
func (r *PostgresOpportunityRepo) FindByID(ctx context.Context, id int64) (*model.Opportunity, error) {
	opp := &model.Opportunity{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, description, company, location, url, created_at
		 FROM opportunities WHERE id = $1`,
		id,
	).Scan(&opp.ID, &opp.Title, &opp.Description, &opp.Company, &opp.Location, &opp.URL, &opp.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, model.NewStorageError("機会の取得", err)
	}

	return opp, nil
}

// ListByArea は指定分野に紐づく機会の一覧を返す。
func (r *PostgresOpportunityRepo) ListByArea(ctx context.Context, areaID int64) ([]model.Opportunity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT o.id, o.title, o.description, o.company, o.location, o.url, o.created_at
		 FROM opportunities o
		 JOIN opportunities_areas oa ON o.id = oa.opportunity_id
		 WHERE oa.area_id = $1`,
		areaID,
	)
	if err != nil {
		return nil, model.NewStorageError("分野別機会の取得", err)
	}
	defer rows.Close()

	opps := []model.Opportunity{}
	for rows.Next() {
		var opp model.Opportunity
		if err := rows.Scan(
			&opp.ID, &opp.Title, &opp.Description,
			&opp.Company, &opp.Location, &opp.URL, &opp.CreatedAt,
		); err != nil {
			return nil, model.NewStorageError("機会の読み取り", err)
		}
		opps = append(opps, opp)
	}
	if err := rows.Err(); err != nil {
		return nil, model.NewStorageError("機会の走査", err)
	}

	return opps, nil
}

// compile-time interface check
var _ OpportunityRepository = (*PostgresOpportunityRepo)(nil)
