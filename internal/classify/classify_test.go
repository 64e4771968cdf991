package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andresuchdata/sellerpulse/internal/domain"
)

func TestWildberriesTable(t *testing.T) {
	cases := map[string]domain.OperationCategory{
		"Продажа":                  domain.CategorySale,
		"Корректная продажа":       domain.CategorySale,
		"Возврат":                  domain.CategoryReturn,
		"Возврат брака":            domain.CategoryReturn,
		"Штраф":                    domain.CategoryPenalty,
		"Штраф за подмену товара":  domain.CategoryPenalty,
		"Логистика":                domain.CategoryLogistics,
		"Хранение":                 domain.CategoryStorage,
		"Платная приемка":          domain.CategoryAdvertising,
		"Компенсация ущерба":       domain.CategoryOther,
		"":                         domain.CategoryOther,
		"  Продажа  ":              domain.CategorySale,
	}
	for label, want := range cases {
		assert.Equal(t, want, Classify(label, domain.MarketplaceWildberries), label)
	}
}

func TestOzonTable(t *testing.T) {
	cases := map[string]domain.OperationCategory{
		"Доставка покупателю":                                domain.CategorySale,
		"Получение возврата, отмены, невыкупа от покупателя": domain.CategoryReturn,
		"Доставка и обработка возврата, отмены, невыкупа":    domain.CategoryLogistics,
		"Оплата эквайринга":                                  domain.CategoryCommission,
		"Услуги продвижения товаров":                         domain.CategoryAdvertising,
		"Услуга размещения товаров на складе":                domain.CategoryStorage,
		"MarketplaceServiceItemDirectFlowLogistic":           domain.CategoryLogistics,
		"MarketplaceServiceItemDelivToCustomer":              domain.CategoryLogistics,
		"Начисление по претензии":                            domain.CategoryOther,
		"MarketplaceMarketplaceSellers":                      domain.CategorySale,
		"MarketplaceSaleReturnsWriteOff":                     domain.CategoryReturn,
		"MarketplaceServiceItemReturnFlowLogistic":           domain.CategoryLogistics,
		"MarketplaceServiceStorageItem":                      domain.CategoryStorage,
		"OperationClaim":                                     domain.CategoryOther,
	}
	for label, want := range cases {
		assert.Equal(t, want, Classify(label, domain.MarketplaceOzon), label)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	labels := []string{"Продажа", "Возврат", "Штраф", "что-то новое", "Логистика сторно"}
	for _, label := range labels {
		first := Classify(label, domain.MarketplaceWildberries)
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, Classify(label, domain.MarketplaceWildberries))
		}
	}
}

func TestUnknownMarketplaceIsOther(t *testing.T) {
	assert.Equal(t, domain.CategoryOther, Classify("Продажа", domain.Marketplace("amazon")))
	var nilTable *Table
	assert.Equal(t, domain.CategoryOther, nilTable.Classify("Продажа"))
}
