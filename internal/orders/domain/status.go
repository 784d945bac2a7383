package domain

// Status captures the lifecycle of an order in the system.
type Status string

const (
	StatusRecebido     Status = "RECEBIDO"
	StatusEmPreparacao Status = "EM_PREPARACAO"
	StatusPronto       Status = "PRONTO"
	StatusFinalizado   Status = "FINALIZADO"
	StatusCancelado    Status = "CANCELADO"
)

// statusFlow is the linear preparation chain. CANCELADO sits outside it.
var statusFlow = []Status{StatusRecebido, StatusEmPreparacao, StatusPronto, StatusFinalizado}

// ParseStatus validates a raw status string.
func ParseStatus(value string) (Status, error) {
	switch s := Status(value); s {
	case StatusRecebido, StatusEmPreparacao, StatusPronto, StatusFinalizado, StatusCancelado:
		return s, nil
	default:
		return "", validationErrorf("invalid order status: %q", value)
	}
}

// Next returns the following status in the preparation chain. The second
// return value is false at FINALIZADO and for statuses outside the chain.
func (s Status) Next() (Status, bool) {
	for i, current := range statusFlow {
		if current == s && i+1 < len(statusFlow) {
			return statusFlow[i+1], true
		}
	}
	return s, false
}

// Previous returns the preceding status in the preparation chain. The second
// return value is false at RECEBIDO and for statuses outside the chain.
func (s Status) Previous() (Status, bool) {
	for i, current := range statusFlow {
		if current == s && i > 0 {
			return statusFlow[i-1], true
		}
	}
	return s, false
}

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return s == StatusFinalizado || s == StatusCancelado
}
