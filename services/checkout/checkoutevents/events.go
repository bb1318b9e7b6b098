package checkoutevents

const (
	TopicName             = "checkout"
	checkoutStartedName   = TopicName + ".started"
	stepCompletedName     = TopicName + ".stepCompleted"
	checkoutCompletedName = TopicName + ".completed"
)

type CheckoutStarted struct {
	ShopperUID string
}

func (e CheckoutStarted) GetEventTypeName() string {
	return checkoutStartedName
}

func (e CheckoutStarted) GetAggregateName() string {
	return e.ShopperUID
}

type CheckoutStepCompleted struct {
	ShopperUID string
	Step       string
}

func (e CheckoutStepCompleted) GetEventTypeName() string {
	return stepCompletedName
}

func (e CheckoutStepCompleted) GetAggregateName() string {
	return e.ShopperUID
}

type CheckoutCompleted struct {
	ShopperUID string
	OrderUID   string
	Success    bool
}

func (e CheckoutCompleted) GetEventTypeName() string {
	return checkoutCompletedName
}

func (e CheckoutCompleted) GetAggregateName() string {
	return e.ShopperUID
}
