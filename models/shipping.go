package models

// ShippingOption is generated fresh for every quote. The option a customer
// picks is copied into the order at creation, not referenced.
type ShippingOption struct {
	CourierCode  string `bson:"courierCode" json:"courierCode" binding:"required"`
	ServiceName  string `bson:"serviceName" json:"serviceName" binding:"required"`
	Cost         int64  `bson:"cost" json:"cost"`
	EtaDays      int    `bson:"etaDays" json:"etaDays"`
	IsLocalFleet bool   `bson:"isLocalFleet" json:"isLocalFleet"`
}
