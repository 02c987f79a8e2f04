// Package contract renders the lease contract document presented to the
// tenant before signing.
package contract

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"arrienda-backend/internal/domain"
	"arrienda-backend/internal/utils"
)

// Data bundles everything the contract template needs. All parties and the
// economic snapshot come from the lease, not from live property state.
type Data struct {
	Property      *domain.Property
	Landlord      *domain.User
	Tenant        *domain.User
	TenantProfile *domain.TenantProfile
	Lease         *domain.Lease
	GeneratedAt   time.Time
}

var documentTypeLabels = map[domain.DocumentType]string{
	domain.DocumentTypeCC:       "C.C.",
	domain.DocumentTypeCE:       "C.E.",
	domain.DocumentTypePassport: "Pasaporte",
}

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "[Por definir]"
	}
	return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}

var tmpl = template.Must(template.New("lease-contract").Funcs(template.FuncMap{
	"money": utils.FormatCOP,
	"date":  formatDate,
}).Parse(`<div class="contract-container" style="font-family: Georgia, serif; max-width: 800px; margin: 0 auto; padding: 40px; line-height: 1.8;">
  <header style="text-align: center; margin-bottom: 40px; border-bottom: 2px solid #333; padding-bottom: 20px;">
    <h1 style="font-size: 24px; margin-bottom: 10px;">CONTRATO DE ARRENDAMIENTO DE VIVIENDA URBANA</h1>
    <p style="color: #666;">Ley 820 de 2003 - Colombia</p>
  </header>

  <section style="margin-bottom: 30px;">
    <h2 style="font-size: 18px; border-bottom: 1px solid #ddd; padding-bottom: 10px;">PARTES CONTRATANTES</h2>

    <div style="margin: 20px 0;">
      <h3 style="font-size: 16px; color: #333;">ARRENDADOR:</h3>
      <p><strong>Nombre:</strong> {{.LandlordName}}</p>
      <p><strong>Email:</strong> {{.Landlord.Email}}</p>
      <p><strong>Telefono:</strong> {{.LandlordPhone}}</p>
    </div>

    <div style="margin: 20px 0;">
      <h3 style="font-size: 16px; color: #333;">ARRENDATARIO:</h3>
      <p><strong>Nombre:</strong> {{.TenantName}}</p>
      <p><strong>Documento:</strong> {{.DocumentLabel}} {{.TenantProfile.DocumentNumber}}</p>
      <p><strong>Email:</strong> {{.Tenant.Email}}</p>
      <p><strong>Ocupacion:</strong> {{.TenantProfile.Occupation}}</p>
    </div>
  </section>

  <section style="margin-bottom: 30px;">
    <h2 style="font-size: 18px; border-bottom: 1px solid #ddd; padding-bottom: 10px;">OBJETO DEL CONTRATO</h2>
    <p>El ARRENDADOR da en arrendamiento al ARRENDATARIO el siguiente inmueble:</p>
    <div style="background: #f5f5f5; padding: 20px; border-radius: 8px; margin: 15px 0;">
      <p><strong>Inmueble:</strong> {{.Property.Title}}</p>
      <p><strong>Direccion:</strong> {{.Property.Address}}</p>
      <p><strong>Ciudad:</strong> {{.Property.City}}{{if .Property.Neighborhood}}, {{.Property.Neighborhood}}{{end}}</p>
      <p><strong>Tipo:</strong> {{.Property.PropertyType}}</p>
      <p><strong>Caracteristicas:</strong> {{.Property.Bedrooms}} habitaciones, {{.Property.Bathrooms}} banos{{if .Property.AreaSqm}}, {{.Property.AreaSqm}} m2{{end}}</p>
      <p><strong>Amoblado:</strong> {{if .Property.IsFurnished}}Si{{else}}No{{end}}</p>
    </div>
  </section>

  <section style="margin-bottom: 30px;">
    <h2 style="font-size: 18px; border-bottom: 1px solid #ddd; padding-bottom: 10px;">CONDICIONES ECONOMICAS</h2>
    <p><strong>Canon de arrendamiento mensual:</strong> {{money .Lease.MonthlyRent}}</p>
    {{if .Lease.DepositAmount}}<p><strong>Deposito de garantia:</strong> {{money .Lease.DepositAmount}}</p>{{end}}
    <p>El pago del canon se realizara dentro de los primeros cinco (5) dias de cada mes.</p>
  </section>

  <section style="margin-bottom: 30px;">
    <h2 style="font-size: 18px; border-bottom: 1px solid #ddd; padding-bottom: 10px;">DURACION</h2>
    <p><strong>Fecha de inicio:</strong> {{date .Lease.StartDate}}</p>
    <p><strong>Fecha de finalizacion:</strong> {{date .Lease.EndDate}}</p>
    <p>El contrato tendra una duracion inicial de doce (12) meses, renovable automaticamente por periodos iguales.</p>
  </section>

  <section style="margin-bottom: 30px;">
    <h2 style="font-size: 18px; border-bottom: 1px solid #ddd; padding-bottom: 10px;">CLAUSULAS GENERALES</h2>
    <ol style="padding-left: 20px;">
      <li style="margin-bottom: 10px;">El arrendatario se compromete a usar el inmueble exclusivamente para vivienda.</li>
      <li style="margin-bottom: 10px;">Queda prohibido el subarriendo total o parcial del inmueble.</li>
      <li style="margin-bottom: 10px;">El arrendatario se obliga a mantener el inmueble en buen estado.</li>
      <li style="margin-bottom: 10px;">Los servicios publicos estaran a cargo del arrendatario.</li>
      <li style="margin-bottom: 10px;">El arrendador podra realizar visitas previo aviso de 24 horas.</li>
      <li style="margin-bottom: 10px;">Para la terminacion anticipada se requiere preaviso de tres (3) meses.</li>
    </ol>
  </section>

  <section style="margin-bottom: 30px;">
    <h2 style="font-size: 18px; border-bottom: 1px solid #ddd; padding-bottom: 10px;">REFERENCIA PERSONAL</h2>
    <p><strong>Nombre:</strong> {{.TenantProfile.ReferenceName}}</p>
    <p><strong>Telefono:</strong> {{.TenantProfile.ReferencePhone}}</p>
    <p><strong>Relacion:</strong> {{.TenantProfile.ReferenceRelation}}</p>
  </section>

  <footer style="margin-top: 60px; border-top: 2px solid #333; padding-top: 30px;">
    <p style="text-align: center; color: #666; font-size: 14px;">
      Contrato generado electronicamente el {{.GeneratedDate}}
    </p>
    <p style="text-align: center; color: #666; font-size: 14px;">
      ID de contrato: {{.Lease.ID}}
    </p>
  </footer>
</div>
`))

type templateData struct {
	Data
	LandlordName  string
	LandlordPhone string
	TenantName    string
	DocumentLabel string
	GeneratedDate string
}

// Generate renders the contract HTML for a lease that has completed tenant
// verification.
func Generate(data Data) (string, error) {
	td := templateData{
		Data:          data,
		LandlordName:  orDefault(data.Landlord.Name, "No especificado"),
		LandlordPhone: orDefault(data.Landlord.Phone, "No especificado"),
		TenantName:    orDefault(data.Tenant.Name, "No especificado"),
		DocumentLabel: documentLabel(data.TenantProfile.DocumentType),
		GeneratedDate: fmt.Sprintf("%d/%d/%d", data.GeneratedAt.Day(), int(data.GeneratedAt.Month()), data.GeneratedAt.Year()),
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, td); err != nil {
		return "", fmt.Errorf("render contract: %w", err)
	}
	return b.String(), nil
}

func documentLabel(dt domain.DocumentType) string {
	if label, ok := documentTypeLabels[dt]; ok {
		return label
	}
	return string(dt)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
