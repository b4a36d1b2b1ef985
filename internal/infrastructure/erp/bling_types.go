package erp

// blingOrderRequest is the payload for registering a purchase order
type blingOrderRequest struct {
	Number      string             `json:"numero"`
	SupplierRef string             `json:"fornecedor"`
	Total       string             `json:"total"`
	Items       []blingOrderItem   `json:"itens"`
	Payments    []blingInstallment `json:"parcelas,omitempty"`
}

type blingOrderItem struct {
	Ref         string `json:"codigo"`
	Description string `json:"descricao"`
	Quantity    string `json:"quantidade"`
	UnitPrice   string `json:"valor"`
}

type blingInstallment struct {
	DueDate string `json:"dataVencimento"`
	Value   string `json:"valor"`
}

// blingOrderResponse is the answer from order registration
type blingOrderResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
	Error *blingError `json:"error,omitempty"`
}

// blingStatusResponse carries a registered order's fulfillment situation
type blingStatusResponse struct {
	Data struct {
		ID        string `json:"id"`
		Situation string `json:"situacao"`
	} `json:"data"`
	Error *blingError `json:"error,omitempty"`
}

type blingError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
