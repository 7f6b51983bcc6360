package board

import "fmt"

type setter[T any] func(*T, any) error

func stringField[T any](ptr func(*T) *string) setter[T] {
	return func(e *T, v any) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: want string, got %T", ErrInvalidValue, v)
		}
		*ptr(e) = s
		return nil
	}
}

// countField accepts anything toInt understands and rejects negatives.
func countField[T any](ptr func(*T) *int) setter[T] {
	return func(e *T, v any) error {
		n, err := toInt(v)
		if err != nil {
			return fmt.Errorf("%w: %v is not a whole number", ErrInvalidValue, v)
		}
		if n < 0 {
			return fmt.Errorf("%w: %d is negative", ErrInvalidValue, n)
		}
		*ptr(e) = n
		return nil
	}
}

func flagField[T any](ptr func(*T) *bool) setter[T] {
	return func(e *T, v any) error {
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("%w: want bool, got %T", ErrInvalidValue, v)
		}
		*ptr(e) = b
		return nil
	}
}

var outboundFields = map[string]setter[OutboundItem]{
	"date":    stringField(func(e *OutboundItem) *string { return &e.Date }),
	"praca":   stringField(func(e *OutboundItem) *string { return &e.Praca }),
	"qtd":     countField(func(e *OutboundItem) *int { return &e.Qtd }),
	"horario": stringField(func(e *OutboundItem) *string { return &e.Horario }),
}

var outboundFlags = map[string]setter[OutboundItem]{
	"separando": flagField(func(e *OutboundItem) *bool { return &e.Status.Separando }),
	"separado":  flagField(func(e *OutboundItem) *bool { return &e.Status.Separado }),
	"romaneio":  flagField(func(e *OutboundItem) *bool { return &e.Status.Romaneio }),
	"carregado": flagField(func(e *OutboundItem) *bool { return &e.Status.Carregado }),
}

var inboundFields = map[string]setter[InboundItem]{
	"date":   stringField(func(e *InboundItem) *string { return &e.Date }),
	"transp": stringField(func(e *InboundItem) *string { return &e.Transp }),
	"qtd":    countField(func(e *InboundItem) *int { return &e.Qtd }),
	"placa":  stringField(func(e *InboundItem) *string { return &e.Placa }),
}

var inboundFlags = map[string]setter[InboundItem]{
	"desc": flagField(func(e *InboundItem) *bool { return &e.Status.Desc }),
	"rec":  flagField(func(e *InboundItem) *bool { return &e.Status.Rec }),
}

var weeklyFields = map[string]setter[WeeklyStat]{
	"label": stringField(func(e *WeeklyStat) *string { return &e.Label }),
	"value": stringField(func(e *WeeklyStat) *string { return &e.Value }),
}

var alertFields = map[string]setter[Alert]{
	"text": stringField(func(e *Alert) *string { return &e.Text }),
}

var progressFields = map[string]setter[ShipmentProgress]{
	"label":   stringField(func(e *ShipmentProgress) *string { return &e.Label }),
	"current": countField(func(e *ShipmentProgress) *int { return &e.Current }),
	"total":   countField(func(e *ShipmentProgress) *int { return &e.Total }),
	"color": func(e *ShipmentProgress, v any) error {
		var c Color
		switch s := v.(type) {
		case string:
			c = Color(s)
		case Color:
			c = s
		default:
			return fmt.Errorf("%w: want color, got %T", ErrInvalidValue, v)
		}
		if !c.IsValid() {
			return fmt.Errorf("%w: color %q", ErrInvalidValue, c)
		}
		e.Color = c
		return nil
	},
}

var infoFields = map[string]setter[Info]{
	"totalStock":      countField(func(e *Info) *int { return &e.TotalStock }),
	"recebimentoNote": stringField(func(e *Info) *string { return &e.RecebimentoNote }),
	"expedicaoNote":   stringField(func(e *Info) *string { return &e.ExpedicaoNote }),
}

// Fields returns the editable field names of coll, in display order.
func Fields(coll Collection) []string {
	switch coll {
	case CollectionOutbound:
		return []string{"praca", "qtd", "horario", "date"}
	case CollectionInbound:
		return []string{"transp", "qtd", "placa", "date"}
	case CollectionWeekly:
		return []string{"label", "value"}
	case CollectionImports:
		return []string{"text"}
	case CollectionProgressBars:
		return []string{"label", "current", "total", "color"}
	default:
		return nil
	}
}

// StatusFlags returns the status flag names of coll in pipeline order.
func StatusFlags(coll Collection) []string {
	switch coll {
	case CollectionOutbound:
		return []string{"separando", "separado", "romaneio", "carregado"}
	case CollectionInbound:
		return []string{"desc", "rec"}
	default:
		return nil
	}
}

// InfoFields returns the editable Info field names.
func InfoFields() []string {
	return []string{"totalStock", "recebimentoNote", "expedicaoNote"}
}
