package classify

import "github.com/andresuchdata/sellerpulse/internal/domain"

// Wildberries classifies supplier_oper_name values of the realization report.
var Wildberries = NewTable("wildberries",
	map[domain.OperationCategory][]string{
		domain.CategorySale:   {"Продажа", "Корректная продажа"},
		domain.CategoryReturn: {"Возврат", "Коррекция возврата", "Возврат брака", "Возврат товара продавцом"},
		domain.CategoryPenalty: {
			"Штраф", "Штрафы", "Штраф МП",
		},
		domain.CategoryLogistics:   {"Логистика", "Логистика сторно", "Коррекция логистики"},
		domain.CategoryStorage:     {"Хранение"},
		domain.CategoryAdvertising: {"Платная приемка", "Удержание", "Удержания"},
	},
	Rule{Contains: "штраф", Category: domain.CategoryPenalty},
	Rule{Contains: "логистик", Category: domain.CategoryLogistics},
	Rule{Contains: "хранени", Category: domain.CategoryStorage},
	Rule{Contains: "приемк", Category: domain.CategoryAdvertising},
)

// Ozon classifies transaction operation types and embedded service names.
var Ozon = NewTable("ozon",
	map[domain.OperationCategory][]string{
		domain.CategorySale: {
			"MarketplaceMarketplaceSellers",
			"OperationAgentDeliveredToCustomer",
			"Доставка покупателю",
		},
		domain.CategoryReturn: {
			"MarketplaceReturnAfterDeliveryWriteOff",
			"MarketplaceSaleReturnsWriteOff",
			"ClientReturnAgentOperation",
			"Получение возврата, отмены, невыкупа от покупателя",
		},
		domain.CategoryCommission: {
			"MarketplaceSellerCompanyName",
			"MarketplaceRedistributionOfAcquiringOperation",
			"Оплата эквайринга",
		},
		domain.CategoryPenalty: {
			"OperationMarketplaceWithHoldingForUndeliverableGoods",
		},
	},
	// Ordered: service fees first, then returns, then the generic delivery/sale rules.
	Rule{Contains: "logistic", Category: domain.CategoryLogistics},
	Rule{Contains: "delivtocustomer", Category: domain.CategoryLogistics},
	Rule{Contains: "fulfillment", Category: domain.CategoryLogistics},
	Rule{Contains: "dropoff", Category: domain.CategoryLogistics},
	Rule{Contains: "storage", Category: domain.CategoryStorage},
	Rule{Contains: "return", Category: domain.CategoryReturn},
	Rule{Contains: "commission", Category: domain.CategoryCommission},
	Rule{Contains: "acquiring", Category: domain.CategoryCommission},
	Rule{Contains: "penalty", Category: domain.CategoryPenalty},
	Rule{Contains: "fine", Category: domain.CategoryPenalty},
	Rule{Contains: "promotion", Category: domain.CategoryAdvertising},
	Rule{Contains: "delivery", Category: domain.CategorySale},
	Rule{Contains: "sale", Category: domain.CategorySale},
	Rule{Contains: "эквайринг", Category: domain.CategoryCommission},
	Rule{Contains: "вознаграждени", Category: domain.CategoryCommission},
	Rule{Contains: "комисси", Category: domain.CategoryCommission},
	Rule{Contains: "обработка возврат", Category: domain.CategoryLogistics},
	Rule{Contains: "доставк", Category: domain.CategoryLogistics},
	Rule{Contains: "логистик", Category: domain.CategoryLogistics},
	Rule{Contains: "магистрал", Category: domain.CategoryLogistics},
	Rule{Contains: "сборк", Category: domain.CategoryLogistics},
	Rule{Contains: "возврат", Category: domain.CategoryReturn},
	Rule{Contains: "хранени", Category: domain.CategoryStorage},
	Rule{Contains: "размещени", Category: domain.CategoryStorage},
	Rule{Contains: "штраф", Category: domain.CategoryPenalty},
	Rule{Contains: "нарушени", Category: domain.CategoryPenalty},
	Rule{Contains: "продвижени", Category: domain.CategoryAdvertising},
	Rule{Contains: "реклам", Category: domain.CategoryAdvertising},
	Rule{Contains: "трафарет", Category: domain.CategoryAdvertising},
)
