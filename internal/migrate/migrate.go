package migrate

import (
	"context"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MigrateOptions struct {
	CreateChecks           bool // CHECK-ограничения целостности
	CreateIndexes          bool // функциональные UNIQUE и индексы выборок
	CreateFKsViaSQL        bool // FK с нужным ON DELETE поверх AutoMigrate
	CreateUpdatedAtTrigger bool // триггер обновления updated_at
}

func DefaultMigrateOptions() MigrateOptions {
	return MigrateOptions{
		CreateChecks:           true,
		CreateIndexes:          true,
		CreateFKsViaSQL:        true,
		CreateUpdatedAtTrigger: true,
	}
}

type step struct {
	name string
	sql  string
}

func exec(ctx context.Context, db *gorm.DB, log *zap.Logger, steps []step) error {
	for _, s := range steps {
		if err := db.WithContext(ctx).Exec(s.sql).Error; err != nil {
			log.Error("Не удалось выполнить шаг миграции", zap.String("step", s.name), zap.Error(err))
			return err
		}
		log.Debug("Шаг миграции выполнен", zap.String("step", s.name))
	}
	return nil
}

func MigrateShopDB(ctx context.Context, db *gorm.DB, log *zap.Logger, opt MigrateOptions) error {
	log.Info("Начало миграции базы данных магазина")

	log.Info("Создание таблиц")
	if err := db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.DailyTokenCounter{},
	); err != nil {
		log.Error("Не удалось создать таблицы", zap.Error(err))
		return err
	}
	log.Info("Таблицы успешно созданы")

	if opt.CreateUpdatedAtTrigger {
		log.Info("Создание триггеров updated_at")
		steps := []step{{"set_updated_at()", `
CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
BEGIN NEW.updated_at = now(); RETURN NEW; END; $$ LANGUAGE plpgsql;
`}}
		for _, table := range []string{"categories", "products", "orders"} {
			steps = append(steps, step{"trg_" + table + "_updated", `
DROP TRIGGER IF EXISTS trg_` + table + `_updated ON ` + table + `;
CREATE TRIGGER trg_` + table + `_updated BEFORE UPDATE ON ` + table + `
FOR EACH ROW EXECUTE FUNCTION set_updated_at();
`})
		}
		if err := exec(ctx, db, log, steps); err != nil {
			return err
		}
		log.Info("Триггеры updated_at успешно созданы")
	}

	if opt.CreateChecks {
		log.Info("Создание CHECK-ограничений")
		if err := exec(ctx, db, log, []step{
			{"chk_users_role_allowed", `
ALTER TABLE users DROP CONSTRAINT IF EXISTS chk_users_role_allowed;
ALTER TABLE users ADD CONSTRAINT chk_users_role_allowed CHECK (role IN ('ADMIN','CUSTOMER'));
`},
			{"chk_products_price_positive", `
ALTER TABLE products DROP CONSTRAINT IF EXISTS chk_products_price_positive;
ALTER TABLE products ADD CONSTRAINT chk_products_price_positive CHECK (price > 0);
`},
			{"chk_products_stock_non_negative", `
ALTER TABLE products DROP CONSTRAINT IF EXISTS chk_products_stock_non_negative;
ALTER TABLE products ADD CONSTRAINT chk_products_stock_non_negative CHECK (stock_quantity >= 0);
`},
			{"chk_products_images_max", `
ALTER TABLE products DROP CONSTRAINT IF EXISTS chk_products_images_max;
ALTER TABLE products ADD CONSTRAINT chk_products_images_max CHECK (cardinality(image_urls) <= 5);
`},
			{"chk_orders_status_allowed", `
ALTER TABLE orders DROP CONSTRAINT IF EXISTS chk_orders_status_allowed;
ALTER TABLE orders ADD CONSTRAINT chk_orders_status_allowed CHECK (status IN ('PENDING','READY','COMPLETED'));
`},
			{"chk_orders_type_allowed", `
ALTER TABLE orders DROP CONSTRAINT IF EXISTS chk_orders_type_allowed;
ALTER TABLE orders ADD CONSTRAINT chk_orders_type_allowed CHECK (order_type IN ('DINE_IN','DELIVERY'));
`},
			{"chk_orders_total_non_negative", `
ALTER TABLE orders DROP CONSTRAINT IF EXISTS chk_orders_total_non_negative;
ALTER TABLE orders ADD CONSTRAINT chk_orders_total_non_negative CHECK (total_amount >= 0);
`},
			{"chk_orders_token_positive", `
ALTER TABLE orders DROP CONSTRAINT IF EXISTS chk_orders_token_positive;
ALTER TABLE orders ADD CONSTRAINT chk_orders_token_positive CHECK (token_number > 0);
`},
			{"chk_order_items_quantity_gt_zero", `
ALTER TABLE order_items DROP CONSTRAINT IF EXISTS chk_order_items_quantity_gt_zero;
ALTER TABLE order_items ADD CONSTRAINT chk_order_items_quantity_gt_zero CHECK (quantity > 0);
`},
			{"chk_order_items_price_non_negative", `
ALTER TABLE order_items DROP CONSTRAINT IF EXISTS chk_order_items_price_non_negative;
ALTER TABLE order_items ADD CONSTRAINT chk_order_items_price_non_negative CHECK (price >= 0);
`},
		}); err != nil {
			return err
		}
		log.Info("CHECK-ограничения успешно созданы")
	}

	if opt.CreateIndexes {
		log.Info("Создание индексов")
		if err := exec(ctx, db, log, []step{
			{"ux_users_email", `CREATE UNIQUE INDEX IF NOT EXISTS ux_users_email ON users (lower(email))`},
			{"ux_categories_name", `CREATE UNIQUE INDEX IF NOT EXISTS ux_categories_name ON categories (lower(name))`},
			{"ux_products_name", `CREATE UNIQUE INDEX IF NOT EXISTS ux_products_name ON products (lower(name))`},
			{"ux_orders_token_date_number", `CREATE UNIQUE INDEX IF NOT EXISTS ux_orders_token_date_number ON orders (token_date, token_number)`},
			{"ix_orders_user_created", `CREATE INDEX IF NOT EXISTS ix_orders_user_created ON orders (user_id, created_at DESC)`},
			{"ix_orders_status_created", `CREATE INDEX IF NOT EXISTS ix_orders_status_created ON orders (status, created_at DESC)`},
			{"ix_products_category_created", `CREATE INDEX IF NOT EXISTS ix_products_category_created ON products (category_id, created_at DESC)`},
		}); err != nil {
			return err
		}
		log.Info("Индексы успешно созданы")
	}

	if opt.CreateFKsViaSQL {
		log.Info("Создание внешних ключей")
		// Каскад категорий и товаров выполняется сервисом явно (с подсчётом удалённых строк),
		// поэтому FK на products/order_items.product_id - RESTRICT.
		if err := exec(ctx, db, log, []step{
			{"fk_products_category", `
ALTER TABLE products
  DROP CONSTRAINT IF EXISTS fk_products_category,
  ADD CONSTRAINT fk_products_category FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE RESTRICT;
`},
			{"fk_orders_user", `
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS fk_orders_user,
  ADD CONSTRAINT fk_orders_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE;
`},
			{"fk_orders_items", `
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS fk_orders_items,
  ADD CONSTRAINT fk_orders_items FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE;
`},
			{"fk_order_items_product", `
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS fk_order_items_product,
  ADD CONSTRAINT fk_order_items_product FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE RESTRICT;
`},
		}); err != nil {
			return err
		}
		log.Info("Внешние ключи успешно созданы")
	}

	log.Info("Миграция базы данных магазина успешно завершена")
	return nil
}
