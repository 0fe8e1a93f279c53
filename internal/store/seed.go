package store

import "github.com/scai-digital/cascade/internal/types"

// Demo datasets installed when a table is loaded empty, so the UI is never
// blank on first run. Ids are assigned at seed time.

var goalsDemoRows = []types.GoalRow{
	{LastName: "Иванов Иван Иванович", Goal: "Рост чистой прибыли", Q1: "+5%", Q2: "+7%", Q3: "+9%", Q4: "+12%", Year: "2026"},
	{LastName: "Петров Петр Петрович", Goal: "Снижение просроченной задолженности", Q1: "-0.3%", Q2: "-0.5%", Q3: "-0.7%", Q4: "-1%", Year: "2026"},
	{LastName: "Сидоров Сергей Сергеевич", Goal: "Увеличение доли цифровых продаж", Q1: "35%", Q2: "40%", Q3: "45%", Q4: "50%", Year: "2026"},
	{LastName: "Кузнецов Максим Андреевич", Goal: "Рост операционной эффективности", Q1: "+2%", Q2: "+4%", Q3: "+6%", Q4: "+8%", Year: "2026"},
	{LastName: "Смирнов Алексей Павлович", Goal: "Оптимизация затрат на персонал", Q1: "-1%", Q2: "-2%", Q3: "-3%", Q4: "-4%", Year: "2026"},
	{LastName: "Попов Николай Викторович", Goal: "Развитие корпоративного портфеля", Q1: "+4%", Q2: "+6%", Q3: "+8%", Q4: "+10%", Year: "2026"},
	{LastName: "Васильев Артем Николаевич", Goal: "Рост клиентской удовлетворенности", Q1: "NPS 48", Q2: "NPS 52", Q3: "NPS 55", Q4: "NPS 58", Year: "2026"},
	{LastName: "Новиков Дмитрий Олегович", Goal: "Сокращение сроков кредитного решения", Q1: "5 дн.", Q2: "4 дн.", Q3: "3 дн.", Q4: "2 дн.", Year: "2026"},
	{LastName: "Федоров Илья Сергеевич", Goal: "Увеличение комиссионного дохода", Q1: "+6%", Q2: "+8%", Q3: "+10%", Q4: "+12%", Year: "2026"},
	{LastName: "Морозов Константин Евгеньевич", Goal: "Рост доли ESG-проектов", Q1: "8%", Q2: "10%", Q3: "12%", Q4: "15%", Year: "2026"},
	{LastName: "Волков Антон Игоревич", Goal: "Повышение точности скоринга", Q1: "85%", Q2: "88%", Q3: "90%", Q4: "92%", Year: "2026"},
	{LastName: "Алексеев Павел Дмитриевич", Goal: "Оптимизация процессов KYC", Q1: "90%", Q2: "92%", Q3: "94%", Q4: "96%", Year: "2026"},
	{LastName: "Лебедев Кирилл Валерьевич", Goal: "Развитие продуктовой линейки МСБ", Q1: "+2 продукта", Q2: "+3 продукта", Q3: "+4 продукта", Q4: "+5 продукта", Year: "2026"},
	{LastName: "Семенов Роман Николаевич", Goal: "Снижение операционных рисков", Q1: "-5%", Q2: "-8%", Q3: "-10%", Q4: "-12%", Year: "2026"},
	{LastName: "Егоров Виталий Михайлович", Goal: "Рост портфеля ипотеки", Q1: "+3%", Q2: "+5%", Q3: "+7%", Q4: "+9%", Year: "2026"},
	{LastName: "Павлов Денис Владимирович", Goal: "Развитие партнерских каналов", Q1: "4 партнера", Q2: "6 партнеров", Q3: "8 партнеров", Q4: "10 партнеров", Year: "2026"},
	{LastName: "Козлов Аркадий Ильич", Goal: "Снижение time-to-market", Q1: "8 нед.", Q2: "7 нед.", Q3: "6 нед.", Q4: "5 нед.", Year: "2026"},
	{LastName: "Степанов Игорь Семенович", Goal: "Рост конверсии лидов", Q1: "18%", Q2: "20%", Q3: "22%", Q4: "25%", Year: "2026"},
	{LastName: "Николаев Владислав Петрович", Goal: "Повышение киберустойчивости", Q1: "95%", Q2: "96%", Q3: "97%", Q4: "98%", Year: "2026"},
	{LastName: "Орлов Тимофей Алексеевич", Goal: "Увеличение доли безналичных операций", Q1: "62%", Q2: "65%", Q3: "68%", Q4: "70%", Year: "2026"},
}

var kpiDemoRows = []types.GoalRow{
	{LastName: "Иванов И.И.", Goal: "Финансовые показатели", MetricGoals: "Чистая прибыль (Холдинг), млн BYN", WeightQ: "20%", WeightYear: "20%", Q1: "24,1", Q2: "58,3", Q3: "112,1", Q4: "205,3", Year: "205,3"},
	{LastName: "Иванов И.И.", Goal: "Финансовые показатели", MetricGoals: "ЧОД до резервов (Холдинг), млн BYN", WeightQ: "20%", WeightYear: "20%", Q1: "146,2", Q2: "299,9", Q3: "471,7", Q4: "702,7", Year: "702,7"},
	{LastName: "Иванов И.И.", Goal: "Финансовые показатели", MetricGoals: "CIR (Холдинг)", WeightQ: "15%", WeightYear: "15%", Q1: "54,4%", Q2: "55,1%", Q3: "53,1%", Q4: "48,4%", Year: "48,4%"},
	{LastName: "Иванов И.И.", Goal: "Финансовые показатели", MetricGoals: "COR с учетом корпооблигаций (Холдинг)", WeightQ: "10%", WeightYear: "10%", Q1: "2,8%", Q2: "2,3%", Q3: "1,9%", Q4: "1,7%", Year: "1,7%"},
	{LastName: "Иванов И.И.", Goal: "Финансовые показатели", MetricGoals: "NPL default (Банк), млн BYN", WeightQ: "5%", WeightYear: "5%", Q1: "310,69", Q2: "317,19", Q3: "359,50", Q4: "378,91", Year: "378,91"},
	{LastName: "Иванов И.И.", Goal: "Финансовые показатели", MetricGoals: "Отсутствуют нарушения лимитов операционного риска, тыс. BYN", WeightQ: "М", WeightYear: "", Q1: "3584,5", Q2: "", Q3: "", Q4: "", Year: ""},
	{LastName: "Иванов И.И.", Goal: "Финансовые показатели", MetricGoals: "ROE (Холдинг)", WeightQ: "М", WeightYear: "М", Q1: "7,6%", Q2: "9,0%", Q3: "11,3%", Q4: "15,1%", Year: "15,1%"},
	{LastName: "Иванов И.И.", Goal: "Финансовые показатели", MetricGoals: "ROA (Холдинг)", WeightQ: "М", WeightYear: "М", Q1: "1,3%", Q2: "1,6%", Q3: "2,0%", Q4: "2,7%", Year: ""},
}

// demoRows returns freshly id-stamped copies of the demo dataset for a table.
func demoRows(table types.TableID) []types.GoalRow {
	var template []types.GoalRow
	switch table {
	case types.TableGoals:
		template = goalsDemoRows
	case types.TableKPI:
		template = kpiDemoRows
	default:
		return nil
	}

	rows := make([]types.GoalRow, len(template))
	for i, row := range template {
		row.ID = types.NewID()
		rows[i] = row
	}
	return rows
}
