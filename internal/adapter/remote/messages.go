package remote

import "github.com/rl1809/stockroom/internal/core/domain"

const serviceName = "stockroom.v1.RecordStore"

const (
	methodListItems      = "ListItems"
	methodInsertItem     = "InsertItem"
	methodUpdateItem     = "UpdateItem"
	methodDeleteItem     = "DeleteItem"
	methodListIssuances  = "ListIssuances"
	methodInsertIssuance = "InsertIssuance"
	methodUpdateIssuance = "UpdateIssuance"
	methodDeleteIssuance = "DeleteIssuance"
)

func fullMethod(name string) string {
	return "/" + serviceName + "/" + name
}

type empty struct{}

type deleteRequest struct {
	ID string `json:"id"`
}

type itemList struct {
	Items []domain.Item `json:"data"`
}

type itemMessage struct {
	Item domain.Item `json:"data"`
}

type issuanceList struct {
	Issuances []domain.Issuance `json:"data"`
}

type issuanceMessage struct {
	Issuance domain.Issuance `json:"data"`
}
