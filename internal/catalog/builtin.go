package catalog

import "monetus/internal/core"

// IncomeCategories is the built-in income classification catalog.
var IncomeCategories = []core.CategoryItem{
	{Type: "Abono Pecuniário", Category: "Benefício Adicional"},
	{Type: "Abono por Tempo de Serviço", Category: "Benefício Adicional"},
	{Type: "Adicional de Insalubridade", Category: "Adicional Salarial"},
	{Type: "Adicional de Periculosidade", Category: "Adicional Salarial"},
	{Type: "Adicional Noturno", Category: "Adicional Salarial"},
	{Type: "Ajuda de Custo", Category: "Reembolso/Benefício"},
	{Type: "Aluguel de Imóvel", Category: "Benefício"},
	{Type: "Aposentadoria", Category: "Benefício de Longo Prazo"},
	{Type: "Auxílio-Alimentação/Refeição", Category: "Benefício"},
	{Type: "Auxílio-Combustível", Category: "Benefício"},
	{Type: "Auxílio-Creche", Category: "Benefício"},
	{Type: "Auxílio-Educação", Category: "Benefício"},
	{Type: "Auxílio-Farmácia", Category: "Benefício"},
	{Type: "Auxílio-Home Office", Category: "Benefício"},
	{Type: "Auxílio-Moradia", Category: "Benefício"},
	{Type: "Bolsas de Estudo", Category: "Benefício"},
	{Type: "Bônus", Category: "Remuneração Variável"},
	{Type: "Cashback", Category: "Benefício"},
	{Type: "Comissões", Category: "Remuneração Variável"},
	{Type: "Décimo Terceiro Salário", Category: "Benefício Adicional"},
	{Type: "Férias Remuneradas", Category: "Benefício Adicional"},
	{Type: "Horas Extras", Category: "Adicional Salarial"},
	{Type: "Participação nos Lucros (PLR)", Category: "Remuneração Variável"},
	{Type: "Salário Base", Category: "Remuneração Fixa"},
	{Type: "Vale-Transporte", Category: "Benefício"},
	{Type: "Outros Recebimentos", Category: "Geral"},
}

// ExpenseCategories is the built-in expense classification catalog.
var ExpenseCategories = []core.CategoryItem{
	{Type: "Academia", Category: "Lazer/Bem-estar", IsExpense: true},
	{Type: "Aluguel", Category: "Moradia", IsExpense: true},
	{Type: "Água", Category: "Contas de Consumo", IsExpense: true},
	{Type: "Assinatura de Software", Category: "Serviços Digitais", IsExpense: true},
	{Type: "Barbeiro/Cabeleireiro", Category: "Cuidados Pessoais", IsExpense: true},
	{Type: "Boletos em geral", Category: "Contas Diversas", IsExpense: true},
	{Type: "Cartão de Crédito", Category: "Dívidas", IsExpense: true},
	{Type: "Celular", Category: "Telecomunicações", IsExpense: true},
	{Type: "Cinema", Category: "Lazer", IsExpense: true},
	{Type: "Condomínio", Category: "Moradia", IsExpense: true},
	{Type: "Conta de Luz", Category: "Contas de Consumo", IsExpense: true},
	{Type: "Educação (Faculdade/Cursos)", Category: "Educação", IsExpense: true},
	{Type: "Farmácia/Remédios", Category: "Saúde", IsExpense: true},
	{Type: "Feira/Supermercado", Category: "Alimentação", IsExpense: true},
	{Type: "Financiamento (Carro/Imóvel)", Category: "Dívidas", IsExpense: true},
	{Type: "Gás", Category: "Contas de Consumo", IsExpense: true},
	{Type: "Gasolina/Combustível", Category: "Transporte", IsExpense: true},
	{Type: "Impostos (IPTU/IPVA/IRPF)", Category: "Tributos", IsExpense: true},
	{Type: "Internet/TV", Category: "Telecomunicações", IsExpense: true},
	{Type: "Lazer Geral", Category: "Lazer", IsExpense: true},
	{Type: "Manutenção Veículo", Category: "Veículo", IsExpense: true},
	{Type: "Plano de Saúde", Category: "Saúde", IsExpense: true},
	{Type: "Restaurantes/Delivery", Category: "Alimentação", IsExpense: true},
	{Type: "Seguros (Vida/Carro)", Category: "Seguros", IsExpense: true},
	{Type: "Streaming (Netflix/Spotify)", Category: "Serviços Digitais", IsExpense: true},
	{Type: "Transporte (Táxi/Uber/Público)", Category: "Transporte", IsExpense: true},
	{Type: "Outras Despesas", Category: "Geral", IsExpense: true},
}
