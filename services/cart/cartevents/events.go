package cartevents

const (
	TopicName       = "cart"
	cartClearedName = TopicName + ".cleared"
)

type CartCleared struct {
	ShopperUID string
	ItemCount  int
}

func (e CartCleared) GetEventTypeName() string {
	return cartClearedName
}

func (e CartCleared) GetAggregateName() string {
	return e.ShopperUID
}
